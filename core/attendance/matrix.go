package attendance

import "sort"

type (
	// RosterEntry pairs a student with their attendance history for matrix
	// building.
	RosterEntry struct {
		StudentID   string
		StudentName string
		History     []Record
	}

	MatrixRow struct {
		StudentID   string            `json:"student_id"`
		StudentName string            `json:"student_name"`
		Cells       map[string]Status `json:"cells"` // day key -> status
	}

	// Matrix is the date-by-student attendance grid for one batch. It is a
	// pure projection: the same inputs always produce the same columns in
	// the same order and the same cell values.
	Matrix struct {
		Columns []string    `json:"columns"`
		Rows    []MatrixRow `json:"rows"`
	}
)

// BuildColumns returns the union of all day keys appearing in any entry's
// history, deduplicated and sorted in ascending calendar order. Keys are
// parsed back to dates for the sort rather than compared as raw strings; the
// canonical key format happens to sort lexically, but nothing here should
// depend on that.
func BuildColumns(entries []RosterEntry) []string {
	seen := make(map[string]struct{})
	columns := make([]string, 0)
	for _, entry := range entries {
		for _, rec := range entry.History {
			if _, ok := seen[rec.Date]; ok {
				continue
			}
			if _, err := ParseDayKey(rec.Date); err != nil {
				continue
			}
			seen[rec.Date] = struct{}{}
			columns = append(columns, rec.Date)
		}
	}
	sort.Slice(columns, func(i, j int) bool {
		ti, _ := ParseDayKey(columns[i])
		tj, _ := ParseDayKey(columns[j])
		return ti.Before(tj)
	})
	return columns
}

// BuildMatrix builds the full attendance matrix for a batch roster. Every
// (row, column) cell maps to exactly one of Present, Absent or NoRecord.
// Empty rosters yield a well-formed matrix with zero rows and columns.
func BuildMatrix(entries []RosterEntry) Matrix {
	columns := BuildColumns(entries)
	rows := make([]MatrixRow, 0, len(entries))
	for _, entry := range entries {
		cells := make(map[string]Status, len(columns))
		for _, day := range columns {
			cells[day] = DailyStatus(entry.History, day)
		}
		rows = append(rows, MatrixRow{
			StudentID:   entry.StudentID,
			StudentName: entry.StudentName,
			Cells:       cells,
		})
	}
	return Matrix{Columns: columns, Rows: rows}
}
