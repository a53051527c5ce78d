package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
)

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	BatchID   string    `json:"batch_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// BatchStudent is a student annotated with today's attendance status, for
// the daily batch roll-call view.
type BatchStudent struct {
	Student
	TodayStatus attendance.Status `json:"today_status"`
}

// Detail is the per-student summary view model: raw histories plus the
// derived per-month aggregates.
type Detail struct {
	Student
	AttendanceHistory []attendance.Record   `json:"attendance_history"`
	FeeHistory        []attendance.FeeEntry `json:"fee_history"`
	MonthlyCounts     map[string]int        `json:"monthly_counts"` // month key -> present days
	FeeStatuses       attendance.Ledger     `json:"fee_statuses"`   // month key -> Paid|Unpaid
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	BatchID string `json:"batch_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age" validate:"min=0"`
	Gender  string `json:"gender" validate:"omitempty,gender"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.BatchID = core.CleanString(ns.BatchID)
	ns.Name = core.CleanString(ns.Name)
	ns.Gender = core.CleanString(ns.Gender)
	return validate.Struct(ns)
}

// MarkAttendance records today's status for one student; marking again the
// same day overwrites the existing entry.
type MarkAttendance struct {
	Status attendance.Status `json:"status" validate:"required,oneof=Present Absent"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	return validate.Struct(ma)
}

// ToggleFee flips the fee status of one month.
type ToggleFee struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=1"`
}

func (tf *ToggleFee) Validate(validate *validator.Validate) error {
	return validate.Struct(tf)
}

// FeeToggleResult reports the outcome of a fee toggle.
type FeeToggleResult struct {
	MonthKey string               `json:"month_key"`
	Status   attendance.FeeStatus `json:"status"`
}
