package batch

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	ErrNotFound = errors.New("batch not found")
	// ErrBatchExists fires when a batch name is reused within one place;
	// the same name in another place is fine.
	ErrBatchExists = errors.New("a batch with this name already exists in this place")
)

type (
	Repository interface {
		CheckBatchUniqueness(ctx context.Context, name, placeID string, excludedBatches ...Batch) error
		CreateBatch(ctx context.Context, bat Batch) (Batch, error)
		// QueryBatchesByPlace applies a case-insensitive match of
		// QueryFilter.Search on Batch.Name, scoped to one place.
		QueryBatchesByPlace(ctx context.Context, placeID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Batch, error)
		GetBatchByID(ctx context.Context, id string) (Batch, error)
		DeleteBatchesByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name, placeID string, exclBatches ...Batch) error {
	if err := svc.repo.CheckBatchUniqueness(context.Background(), name, placeID, exclBatches...); err != nil {
		if errors.Cause(err) == ErrBatchExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nb NewBatch) (Batch, error) {
	now := time.Now().UTC()
	bat := Batch{
		Name:      nb.Name,
		PlaceID:   nb.PlaceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateBatch(ctx, bat)
}

func (svc *Service) QueryByPlace(ctx context.Context, placeID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Batch, error) {
	return svc.repo.QueryBatchesByPlace(ctx, placeID, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Batch, error) {
	return svc.repo.GetBatchByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteBatchesByID(ctx, ids...)
}
