package inmemdb

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) CreateStudents(_ context.Context, stds []student.Student) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range stds {
		std := stds[i]
		std.ID = uuid.New().String()
		repo.db.students[std.ID] = &std
	}
	return len(stds), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudentsByBatch(_ context.Context, batchID string) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stds := make([]student.Student, 0)
	for _, std := range repo.db.students {
		if std.BatchID == batchID {
			stds = append(stds, *std)
		}
	}
	sort.Slice(stds, func(i, j int) bool {
		if stds[i].Name != stds[j].Name {
			return stds[i].Name < stds[j].Name
		}
		return stds[i].ID < stds[j].ID
	})
	return stds, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.students[id]; ok {
			delete(repo.db.students, id)
			delete(repo.db.attendance, id)
			delete(repo.db.fees, id)
			delete(repo.db.feeOrder, id)
			cnt++
		}
	}
	return cnt, nil
}

func (repo *studentRepository) QueryAttendance(_ context.Context, studentID string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.history(studentID), nil
}

func (repo *studentRepository) QueryBatchAttendance(_ context.Context, batchID string) (map[string][]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	histories := make(map[string][]attendance.Record)
	for _, std := range repo.db.students {
		if std.BatchID != batchID {
			continue
		}
		if history := repo.history(std.ID); len(history) > 0 {
			histories[std.ID] = history
		}
	}
	return histories, nil
}

func (repo *studentRepository) UpsertAttendance(_ context.Context, studentID, day string, status attendance.Status) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	history := repo.db.attendance[studentID]
	for i, rec := range history {
		if rec.Date == day {
			history[i].Status = status
			return nil
		}
	}
	repo.db.attendance[studentID] = append(history, attendance.Record{Date: day, Status: status})
	return nil
}

func (repo *studentRepository) QueryFees(_ context.Context, studentID string) ([]attendance.FeeEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	fees := make([]attendance.FeeEntry, 0)
	for _, key := range repo.db.feeOrder[studentID] {
		month, _ := strconv.Atoi(key[:2])
		year, _ := strconv.Atoi(key[3:])
		fees = append(fees, attendance.FeeEntry{
			Month:  month,
			Year:   year,
			Status: repo.db.fees[studentID][key],
		})
	}
	return fees, nil
}

func (repo *studentRepository) UpsertFee(_ context.Context, studentID, monthKey string, status attendance.FeeStatus) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.fees[studentID] == nil {
		repo.db.fees[studentID] = make(map[string]attendance.FeeStatus)
	}
	if _, ok := repo.db.fees[studentID][monthKey]; !ok {
		repo.db.feeOrder[studentID] = append(repo.db.feeOrder[studentID], monthKey)
	}
	repo.db.fees[studentID][monthKey] = status
	return nil
}

// history returns a day-ordered copy of the student's attendance records.
// Callers must hold the read lock.
func (repo *studentRepository) history(studentID string) []attendance.Record {
	src := repo.db.attendance[studentID]
	history := make([]attendance.Record, len(src))
	copy(history, src)
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history
}
