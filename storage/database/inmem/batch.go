package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/batch"
)

type batchRepository struct {
	db *DB
}

var _ batch.Repository = (*batchRepository)(nil)

func NewBatchRepository(db *DB) *batchRepository {
	return &batchRepository{db: db}
}

func (repo *batchRepository) CheckBatchUniqueness(_ context.Context, name, placeID string, excludedBatches ...batch.Batch) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]struct{}, len(excludedBatches))
	for _, b := range excludedBatches {
		excluded[b.ID] = struct{}{}
	}
	for _, bat := range repo.db.batches {
		if _, ok := excluded[bat.ID]; ok {
			continue
		}
		if bat.PlaceID == placeID && strings.EqualFold(bat.Name, name) {
			return batch.ErrBatchExists
		}
	}
	return nil
}

func (repo *batchRepository) CreateBatch(_ context.Context, bat batch.Batch) (batch.Batch, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	bat.ID = uuid.New().String()
	repo.db.batches[bat.ID] = &bat
	return bat, nil
}

func (repo *batchRepository) QueryBatchesByPlace(_ context.Context, placeID string, filter *batch.QueryFilter, _ []core.DBOrdering) ([]batch.Batch, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	batches := make([]batch.Batch, 0)
	for _, bat := range repo.db.batches {
		if bat.PlaceID != placeID {
			continue
		}
		if filter != nil && filter.Search != "" &&
			!strings.Contains(strings.ToLower(bat.Name), strings.ToLower(filter.Search)) {
			continue
		}
		batches = append(batches, *bat)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Name < batches[j].Name })
	return batches, nil
}

func (repo *batchRepository) GetBatchByID(_ context.Context, id string) (batch.Batch, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if bat, ok := repo.db.batches[id]; ok {
		return *bat, nil
	}
	return batch.Batch{}, batch.ErrNotFound
}

func (repo *batchRepository) DeleteBatchesByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.batches[id]; ok {
			delete(repo.db.batches, id)
			cnt++
		}
	}
	return cnt, nil
}
