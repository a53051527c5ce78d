// Package attendance holds the pure attendance & fee reconciliation engine:
// day/month key normalization, per-month aggregation, the fee ledger and the
// batch attendance matrix. Nothing in here performs I/O; callers fetch
// histories from the store, run these transforms and persist the results.
package attendance

import "errors"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

// Status is the tri-state result of an attendance lookup. NoRecord means no
// entry exists for the day; it is not an error.
type Status string

const (
	Present  Status = "Present"
	Absent   Status = "Absent"
	NoRecord Status = "NoRecord"
)

// Record is one day of a student's attendance history.
type Record struct {
	Date   string `json:"date"` // day key, YYYY-MM-DD
	Status Status `json:"status"`
}

type FeeStatus string

const (
	Paid   FeeStatus = "Paid"
	Unpaid FeeStatus = "Unpaid"
)

// FeeEntry is one month of a student's fee history as fetched from the store.
type FeeEntry struct {
	Month  int       `json:"month"`
	Year   int       `json:"year"`
	Status FeeStatus `json:"status"`
}
