package place

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	ErrNotFound    = errors.New("place not found")
	ErrPlaceExists = errors.New("a place with this name already exists")
)

type (
	Repository interface {
		CheckPlaceUniqueness(ctx context.Context, name string, excludedPlaces ...Place) error
		CreatePlace(ctx context.Context, plc Place) (Place, error)
		// QueryPlaces applies a case-insensitive match of QueryFilter.Search
		// on Place.Name.
		QueryPlaces(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Place, error)
		GetPlaceByID(ctx context.Context, id string) (Place, error)
		DeletePlacesByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string, exclPlaces ...Place) error {
	if err := svc.repo.CheckPlaceUniqueness(context.Background(), name, exclPlaces...); err != nil {
		if errors.Cause(err) == ErrPlaceExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPlace) (Place, error) {
	now := time.Now().UTC()
	plc := Place{
		Name:      np.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePlace(ctx, plc)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Place, error) {
	return svc.repo.QueryPlaces(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Place, error) {
	return svc.repo.GetPlaceByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeletePlacesByID(ctx, ids...)
}
