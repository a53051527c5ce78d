package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/roster"
)

var (
	ErrNotFound = errors.New("student not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		CreateStudents(ctx context.Context, stds []Student) (int, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryStudentsByBatch(ctx context.Context, batchID string) ([]Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) (int, error)

		QueryAttendance(ctx context.Context, studentID string) ([]attendance.Record, error)
		// QueryBatchAttendance returns each batch student's history keyed by
		// student ID, entries ordered by day then insertion order.
		QueryBatchAttendance(ctx context.Context, batchID string) (map[string][]attendance.Record, error)
		// UpsertAttendance is an atomic write to the (student, day) cell;
		// the last write wins.
		UpsertAttendance(ctx context.Context, studentID, day string, status attendance.Status) error

		QueryFees(ctx context.Context, studentID string) ([]attendance.FeeEntry, error)
		// UpsertFee is an atomic write to the (student, month) cell.
		UpsertFee(ctx context.Context, studentID, monthKey string, status attendance.FeeStatus) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		loc     *time.Location
	}
)

// NewService builds the student service. The config pins the reference
// timezone used to resolve "today" for attendance marking.
func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf, loc: conf.Location()}
}

func (svc *Service) today() string {
	return attendance.DayKey(nowFunc().In(svc.loc))
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := nowFunc().UTC()
	std := Student{
		Name:      ns.Name,
		Age:       ns.Age,
		Gender:    ns.Gender,
		BatchID:   ns.BatchID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

// BulkCreate persists all drafts of an import batch request and returns the
// created count. Drafts are taken as-is: the pipeline already normalized
// them, and duplicate names are allowed.
func (svc *Service) BulkCreate(ctx context.Context, req roster.BatchRequest) (int, error) {
	now := nowFunc().UTC()
	stds := make([]Student, 0, len(req.Drafts))
	for _, draft := range req.Drafts {
		stds = append(stds, Student{
			Name:      draft.Name,
			Age:       draft.Age,
			Gender:    draft.Gender,
			BatchID:   req.BatchID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return svc.repo.CreateStudents(ctx, stds)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// QueryByBatch returns the batch roster, each student annotated with
// today's attendance status for the roll-call view.
func (svc *Service) QueryByBatch(ctx context.Context, batchID string) ([]BatchStudent, error) {
	stds, err := svc.repo.QueryStudentsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	histories, err := svc.repo.QueryBatchAttendance(ctx, batchID)
	if err != nil {
		return nil, err
	}

	today := svc.today()
	roll := make([]BatchStudent, 0, len(stds))
	for _, std := range stds {
		roll = append(roll, BatchStudent{
			Student:     std,
			TodayStatus: attendance.DailyStatus(histories[std.ID], today),
		})
	}
	return roll, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// MarkAttendance records status for the student for today. Re-marking the
// same day overwrites the earlier entry; the repository upsert makes the
// write atomic so the last toggle wins.
func (svc *Service) MarkAttendance(ctx context.Context, studentID string, status attendance.Status) (attendance.Record, error) {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return attendance.Record{}, err
	}
	day := svc.today()
	if err := svc.repo.UpsertAttendance(ctx, studentID, day, status); err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance")
	}
	return attendance.Record{Date: day, Status: status}, nil
}

// ToggleFeeStatus flips the student's fee status for the given month and
// persists the result.
func (svc *Service) ToggleFeeStatus(ctx context.Context, studentID string, month, year int) (FeeToggleResult, error) {
	key, err := attendance.MonthKey(month, year)
	if err != nil {
		return FeeToggleResult{}, err
	}
	if _, err = svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return FeeToggleResult{}, err
	}

	fees, err := svc.repo.QueryFees(ctx, studentID)
	if err != nil {
		return FeeToggleResult{}, errors.Wrap(err, "querying fees")
	}
	_, status, err := attendance.BuildLedger(fees).Toggle(key)
	if err != nil {
		return FeeToggleResult{}, err
	}
	if err = svc.repo.UpsertFee(ctx, studentID, key, status); err != nil {
		return FeeToggleResult{}, errors.Wrap(err, "upserting fee")
	}
	return FeeToggleResult{MonthKey: key, Status: status}, nil
}

// Detail assembles the per-student summary: histories plus the derived
// monthly present counts and fee ledger.
func (svc *Service) Detail(ctx context.Context, studentID string) (Detail, error) {
	std, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return Detail{}, err
	}
	history, err := svc.repo.QueryAttendance(ctx, studentID)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying attendance")
	}
	fees, err := svc.repo.QueryFees(ctx, studentID)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying fees")
	}
	return Detail{
		Student:           std,
		AttendanceHistory: history,
		FeeHistory:        fees,
		MonthlyCounts:     attendance.MonthlyPresentCounts(history),
		FeeStatuses:       attendance.BuildLedger(fees),
	}, nil
}

// BatchDates returns the deduplicated, chronologically sorted day keys with
// any attendance record in the batch: the matrix's column set.
func (svc *Service) BatchDates(ctx context.Context, batchID string) ([]string, error) {
	entries, err := svc.rosterEntries(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return attendance.BuildColumns(entries), nil
}

// BatchMatrix builds the date-by-student attendance grid for the batch.
func (svc *Service) BatchMatrix(ctx context.Context, batchID string) (attendance.Matrix, error) {
	entries, err := svc.rosterEntries(ctx, batchID)
	if err != nil {
		return attendance.Matrix{}, err
	}
	return attendance.BuildMatrix(entries), nil
}

func (svc *Service) rosterEntries(ctx context.Context, batchID string) ([]attendance.RosterEntry, error) {
	stds, err := svc.repo.QueryStudentsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	histories, err := svc.repo.QueryBatchAttendance(ctx, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "querying batch attendance")
	}

	entries := make([]attendance.RosterEntry, 0, len(stds))
	for _, std := range stds {
		entries = append(entries, attendance.RosterEntry{
			StudentID:   std.ID,
			StudentName: std.Name,
			History:     histories[std.ID],
		})
	}
	return entries, nil
}
