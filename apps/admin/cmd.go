package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB
	batchSvc   *batch.Service
	studentSvc *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status, ...)")
	fmt.Println("  import -batch BATCH_ID -file FILE - bulk import students from an xlsx file")
	fmt.Println("  template -out FILE - write the student import template")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importBatch := importCmd.String("batch", "", "The target batch ID.")
	importFile := importCmd.String("file", "", "Path to the xlsx file to import.")

	templateCmd := flag.NewFlagSet("template", flag.ExitOnError)
	templateOut := templateCmd.String("out", "students_template.xlsx", "Path to write the template to.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importBatch == "" || *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importBatch, *importFile)
	case "template":
		if err := templateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *templateOut == "" {
			templateCmd.Usage()
			return errHelp
		}
		return cli.writeTemplate(*templateOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
