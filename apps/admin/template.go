package main

import (
	"fmt"
	"io/ioutil"

	"github.com/trezcool/shule/core/roster"
)

func (cli *commandLine) writeTemplate(out string) error {
	buf, err := roster.Template()
	if err != nil {
		return err
	}
	if err = ioutil.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("template written to %s\n", out)
	return nil
}
