package roster

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const templateSheet = "Students"

// illustrative rows shipped in the downloadable import template
var templateRows = []struct {
	Name   string
	Age    int
	Gender string
}{
	{"John Doe", 20, "Male"},
	{"Jane Smith", 19, "Female"},
	{"Mike Johnson", 21, "Male"},
	{"Sarah Wilson", 20, "Female"},
	{"David Brown", 22, "Male"},
}

// Template generates the fixed-shape import template workbook. It depends on
// no current data and always produces the same sheet.
func Template() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), templateSheet)

	headers := []string{"Name", "Age", "Gender"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "locating header cell")
		}
		if err = f.SetCellValue(templateSheet, cell, header); err != nil {
			return nil, errors.Wrap(err, "writing header cell")
		}
	}

	for i, row := range templateRows {
		line := i + 2
		_ = f.SetCellValue(templateSheet, fmt.Sprintf("A%d", line), row.Name)
		_ = f.SetCellValue(templateSheet, fmt.Sprintf("B%d", line), row.Age)
		_ = f.SetCellValue(templateSheet, fmt.Sprintf("C%d", line), row.Gender)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing template workbook")
	}
	return buf, nil
}
