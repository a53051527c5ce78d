package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/student"
	emailsvc "github.com/trezcool/shule/services/email"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := &core.Config{TestMode: true, AppName: "Shule", TimeZone: "UTC"}
	db := inmemdb.NewDB()
	return &commandLine{
		batchSvc:   batch.NewService(inmemdb.NewBatchRepository(db)),
		studentSvc: student.NewService(inmemdb.NewStudentRepository(db), emailsvc.NewConsoleServiceMock(conf), conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"shule-admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_importStudents(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	morning, err := cli.batchSvc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: "p1"})
	if err != nil {
		t.Fatalf("creating batch: %v", err)
	}

	// build an import file on disk
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, header := range []string{"Name", "Age", "Gender"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	_ = f.SetCellValue(sheet, "A2", "Asha")
	_ = f.SetCellValue(sheet, "B2", 10)
	_ = f.SetCellValue(sheet, "C2", "F")
	_ = f.SetCellValue(sheet, "B3", 12) // nameless row, skipped
	path := filepath.Join(t.TempDir(), "students.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}

	badPath := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := ioutil.WriteFile(badPath, []byte("not a workbook"), 0644); err != nil {
		t.Fatalf("writing bad file: %v", err)
	}

	tests := []cliTest{
		{name: "no flags", args: []string{"import"}, wantErr: errHelp},
		{name: "missing file flag", args: []string{"import", "-batch", morning.ID}, wantErr: errHelp},
		{name: "unknown batch", args: []string{"import", "-batch", "nope", "-file", path}, wantErr: batch.ErrNotFound},
		{name: "unreadable file", args: []string{"import", "-batch", morning.ID, "-file", badPath}, wantErrStr: "unreadable spreadsheet file"},
		{name: "import", args: []string{"import", "-batch", morning.ID, "-file", path}},
	}
	for _, tt := range tests {
		args := append([]string{"shule-admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	roll, err := cli.studentSvc.QueryByBatch(ctx, morning.ID)
	if err != nil {
		t.Fatalf("QueryByBatch() error = %v", err)
	}
	if len(roll) != 1 {
		t.Fatalf("batch len = %d, want 1", len(roll))
	}
	if roll[0].Name != "Asha" || roll[0].Age != 10 {
		t.Errorf("imported student = %+v", roll[0].Student)
	}
}

func Test_commandLine_writeTemplate(t *testing.T) {
	cli := setup(t)

	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := cli.run([]string{"shule-admin", "template", "-out", path}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening template: %v", err)
	}
	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// header + 5 sample rows
	if len(rows) != 6 {
		t.Errorf("rows = %d, want 6", len(rows))
	}
}
