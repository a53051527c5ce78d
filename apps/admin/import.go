package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/shule/core/roster"
)

// importStudents runs a disk file through the roster pipeline and reports
// the created count plus any rejected rows.
func (cli *commandLine) importStudents(batchID, path string) error {
	ctx := context.Background()

	bat, err := cli.batchSvc.GetByID(ctx, batchID)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows, err := roster.ParseWorkbook(file)
	if err != nil {
		return err
	}
	drafts, rowErrs := roster.Normalize(rows)

	created, err := cli.studentSvc.BulkCreate(ctx, roster.BuildBatchRequest(bat.ID, drafts))
	if err != nil {
		return err
	}

	fmt.Printf("imported %d student(s) into batch %q\n", created, bat.Name)
	for _, rowErr := range rowErrs {
		fmt.Printf("  row %d skipped: %s\n", rowErr.Line, rowErr.Reason)
	}
	return nil
}
