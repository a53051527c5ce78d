// Package roster implements the bulk student import pipeline: workbook bytes
// in, validated student drafts out. A malformed row never aborts an import;
// only a wholly unreadable file does.
package roster

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var ErrUnreadableFile = errors.New("unreadable spreadsheet file")

const ReasonMissingName = "missing name"

type (
	// RawRow is one tabular row as extracted from the workbook, untyped.
	RawRow struct {
		Line   int // 1-based sheet row number, for error reporting
		Name   string
		Age    string
		Gender string
	}

	// Draft is a provisionally validated student record awaiting batch
	// submission.
	Draft struct {
		Name   string `json:"name" validate:"required"`
		Age    int    `json:"age" validate:"min=0"`
		Gender string `json:"gender"`
	}

	// RowError reports a row that could not be turned into a Draft.
	RowError struct {
		Line   int    `json:"line"`
		Reason string `json:"reason"`
	}

	// BatchRequest wraps the drafts destined for one batch. Drafts are not
	// deduplicated against existing students: duplicate names become
	// separate students, the store is authoritative for identity.
	BatchRequest struct {
		BatchID string  `json:"batch_id"`
		Drafts  []Draft `json:"drafts"`
	}
)

// NormalizeRow coerces a raw row into a Draft. Name is required; a missing
// name is the only per-row failure. Age and gender are best-effort: an
// unparsable or missing age defaults to 0 and a missing gender to the empty
// string, so sloppy spreadsheets still import.
func NormalizeRow(raw RawRow) (Draft, *RowError) {
	name := core.CleanString(raw.Name)
	if name == "" {
		return Draft{}, &RowError{Line: raw.Line, Reason: ReasonMissingName}
	}

	age := 0
	if v, err := strconv.Atoi(strings.TrimSpace(raw.Age)); err == nil && v >= 0 {
		age = v
	}

	return Draft{
		Name:   name,
		Age:    age,
		Gender: core.CleanString(raw.Gender),
	}, nil
}

// Normalize runs NormalizeRow over all rows, collecting drafts and per-row
// errors separately.
func Normalize(rows []RawRow) ([]Draft, []RowError) {
	drafts := make([]Draft, 0, len(rows))
	rowErrs := make([]RowError, 0)
	for _, raw := range rows {
		draft, rowErr := NormalizeRow(raw)
		if rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, rowErrs
}

// BuildBatchRequest wraps validated drafts with the target batch.
func BuildBatchRequest(batchID string, drafts []Draft) BatchRequest {
	return BatchRequest{BatchID: batchID, Drafts: drafts}
}
