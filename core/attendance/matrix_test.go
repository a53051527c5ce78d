package attendance

import (
	"reflect"
	"testing"
)

func TestBuildColumns(t *testing.T) {
	tests := []struct {
		name    string
		entries []RosterEntry
		want    []string
	}{
		{
			name: "dedupes and sorts unordered dates",
			entries: []RosterEntry{
				{StudentID: "a", History: []Record{
					{Date: "2024-01-02", Status: Present},
					{Date: "2024-01-01", Status: Absent},
				}},
				{StudentID: "b", History: []Record{
					{Date: "2024-01-02", Status: Absent},
				}},
			},
			want: []string{"2024-01-01", "2024-01-02"},
		},
		{
			name: "sorts across years by calendar date",
			entries: []RosterEntry{
				{StudentID: "a", History: []Record{
					{Date: "2025-01-01", Status: Present},
					{Date: "2024-12-31", Status: Present},
					{Date: "2024-02-29", Status: Absent},
				}},
			},
			want: []string{"2024-02-29", "2024-12-31", "2025-01-01"},
		},
		{
			name: "invalid keys dropped",
			entries: []RosterEntry{
				{StudentID: "a", History: []Record{
					{Date: "soon", Status: Present},
					{Date: "2024-01-01", Status: Present},
				}},
			},
			want: []string{"2024-01-01"},
		},
		{name: "no entries", entries: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildColumns(tt.entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildColumns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildMatrix(t *testing.T) {
	entries := []RosterEntry{
		{StudentID: "a", StudentName: "Amy", History: []Record{
			{Date: "2024-01-01", Status: Present},
			{Date: "2024-01-02", Status: Absent},
		}},
		{StudentID: "b", StudentName: "Ben", History: []Record{
			{Date: "2024-01-02", Status: Present},
		}},
	}

	matrix := BuildMatrix(entries)

	wantColumns := []string{"2024-01-01", "2024-01-02"}
	if !reflect.DeepEqual(matrix.Columns, wantColumns) {
		t.Fatalf("Columns = %v, want %v", matrix.Columns, wantColumns)
	}
	if len(matrix.Rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(matrix.Rows))
	}

	wantCells := []map[string]Status{
		{"2024-01-01": Present, "2024-01-02": Absent},
		{"2024-01-01": NoRecord, "2024-01-02": Present},
	}
	for i, row := range matrix.Rows {
		if !reflect.DeepEqual(row.Cells, wantCells[i]) {
			t.Errorf("row %d cells = %v, want %v", i, row.Cells, wantCells[i])
		}
		// every (row, column) cell is total: exactly one tri-state value
		for _, day := range matrix.Columns {
			switch row.Cells[day] {
			case Present, Absent, NoRecord:
			default:
				t.Errorf("row %d cell %q = %q, not a valid status", i, day, row.Cells[day])
			}
		}
	}
}

func TestBuildMatrixDeterministic(t *testing.T) {
	entries := []RosterEntry{
		{StudentID: "a", StudentName: "Amy", History: []Record{
			{Date: "2024-03-03", Status: Present},
			{Date: "2024-01-01", Status: Absent},
			{Date: "2024-02-02", Status: Present},
		}},
		{StudentID: "b", StudentName: "Ben", History: []Record{
			{Date: "2024-02-02", Status: Absent},
		}},
	}
	first := BuildMatrix(entries)
	for i := 0; i < 10; i++ {
		if got := BuildMatrix(entries); !reflect.DeepEqual(got, first) {
			t.Fatalf("BuildMatrix() not deterministic: %v != %v", got, first)
		}
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	matrix := BuildMatrix(nil)
	if len(matrix.Columns) != 0 || len(matrix.Rows) != 0 {
		t.Errorf("BuildMatrix(nil) = %+v, want empty matrix", matrix)
	}
	if matrix.Columns == nil || matrix.Rows == nil {
		t.Errorf("BuildMatrix(nil) returned nil slices; want empty, well-formed matrix")
	}
}
