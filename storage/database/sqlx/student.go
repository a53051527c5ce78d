package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Age       null.Int  `db:"age"`
	Gender    string    `db:"gender"`
	BatchID   string    `db:"batch_id"`
	CreatedAt null.Time `db:"created_at"`
	UpdatedAt null.Time `db:"updated_at"`
}

func (row studentRow) toCore() student.Student {
	return student.Student{
		ID:        row.ID,
		Name:      row.Name,
		Age:       row.Age.Int,
		Gender:    row.Gender,
		BatchID:   row.BatchID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// attendanceRow's day comes back pre-formatted as the canonical day key, so
// no timezone interpretation happens on scan.
type attendanceRow struct {
	StudentID string `db:"student_id"`
	Day       string `db:"day"`
	Status    string `db:"status"`
}

type feeRow struct {
	MonthKey string `db:"month_key"`
	Status   string `db:"status"`
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, name, age, gender, batch_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		std.ID, std.Name, std.Age, std.Gender, std.BatchID, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) CreateStudents(ctx context.Context, stds []student.Student) (int, error) {
	if len(stds) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning bulk insert")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO student (id, name, age, gender, batch_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	)
	if err != nil {
		return 0, errors.Wrap(err, "preparing bulk insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, std := range stds {
		if _, err = stmt.ExecContext(ctx, uuid.New().String(), std.Name, std.Age, std.Gender, std.BatchID, std.CreatedAt, std.UpdatedAt); err != nil {
			return 0, errors.Wrap(err, "inserting student")
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing bulk insert")
	}
	return len(stds), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, age, gender, batch_id, created_at, updated_at FROM student WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return row.toCore(), nil
}

func (repo studentRepository) QueryStudentsByBatch(ctx context.Context, batchID string) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, age, gender, batch_id, created_at, updated_at
		 FROM student WHERE batch_id = $1 ORDER BY name ASC, id ASC`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	stds := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		stds = append(stds, row.toCore())
	}
	return stds, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}

func (repo studentRepository) QueryAttendance(ctx context.Context, studentID string) ([]attendance.Record, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT student_id, to_char(day, 'YYYY-MM-DD') AS day, status
		 FROM attendance_record WHERE student_id = $1 ORDER BY day ASC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}

	history := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		history = append(history, attendance.Record{Date: row.Day, Status: attendance.Status(row.Status)})
	}
	return history, nil
}

func (repo studentRepository) QueryBatchAttendance(ctx context.Context, batchID string) (map[string][]attendance.Record, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT a.student_id, to_char(a.day, 'YYYY-MM-DD') AS day, a.status
		 FROM attendance_record a
		 JOIN student s ON s.id = a.student_id
		 WHERE s.batch_id = $1
		 ORDER BY a.day ASC`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "querying batch attendance")
	}

	histories := make(map[string][]attendance.Record)
	for _, row := range rows {
		histories[row.StudentID] = append(histories[row.StudentID], attendance.Record{
			Date:   row.Day,
			Status: attendance.Status(row.Status),
		})
	}
	return histories, nil
}

func (repo studentRepository) UpsertAttendance(ctx context.Context, studentID, day string, status attendance.Status) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO attendance_record (id, student_id, day, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, day) DO UPDATE SET status = EXCLUDED.status, updated_at = now()`,
		uuid.New().String(), studentID, day, string(status),
	)
	return errors.Wrap(err, "upserting attendance")
}

func (repo studentRepository) QueryFees(ctx context.Context, studentID string) ([]attendance.FeeEntry, error) {
	var rows []feeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT month_key, status FROM fee_record WHERE student_id = $1 ORDER BY month_key ASC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}

	fees := make([]attendance.FeeEntry, 0, len(rows))
	for _, row := range rows {
		month, year, err := splitMonthKey(row.MonthKey)
		if err != nil {
			continue // malformed row, skip rather than fail the fetch
		}
		fees = append(fees, attendance.FeeEntry{Month: month, Year: year, Status: attendance.FeeStatus(row.Status)})
	}
	return fees, nil
}

func (repo studentRepository) UpsertFee(ctx context.Context, studentID, monthKey string, status attendance.FeeStatus) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO fee_record (id, student_id, month_key, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, month_key) DO UPDATE SET status = EXCLUDED.status, updated_at = now()`,
		uuid.New().String(), studentID, monthKey, string(status),
	)
	return errors.Wrap(err, "upserting fee")
}

func splitMonthKey(key string) (month, year int, err error) {
	if !attendance.ValidMonthKey(key) {
		return 0, 0, attendance.ErrInvalidMonth
	}
	month = int(key[0]-'0')*10 + int(key[1]-'0')
	for _, c := range key[3:] {
		year = year*10 + int(c-'0')
	}
	return month, year, nil
}
