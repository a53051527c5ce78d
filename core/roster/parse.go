package roster

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// expected template column headers, matched case-insensitively
const (
	colName   = "name"
	colAge    = "age"
	colGender = "gender"
)

// ParseWorkbook extracts raw rows from an uploaded xlsx/xls payload. The
// first sheet is used; the first row is the header and maps columns to
// fields by title. Cells beyond the header width are ignored. Only an
// unparsable payload fails, with ErrUnreadableFile.
func ParseWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrUnreadableFile
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrUnreadableFile
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ErrUnreadableFile
	}
	if len(rows) == 0 {
		return []RawRow{}, nil
	}

	// header row -> column indexes
	cols := make(map[string]int, len(rows[0]))
	for i, title := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(title))] = i
	}

	cell := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	raws := make([]RawRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		raws = append(raws, RawRow{
			Line:   i + 2, // 1-based, after the header
			Name:   cell(row, colName),
			Age:    cell(row, colAge),
			Gender: cell(row, colGender),
		})
	}
	return raws, nil
}
