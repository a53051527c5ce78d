package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/place"
)

type placeRepository struct {
	db *DB
}

var _ place.Repository = (*placeRepository)(nil)

func NewPlaceRepository(db *DB) *placeRepository {
	return &placeRepository{db: db}
}

func (repo *placeRepository) CheckPlaceUniqueness(_ context.Context, name string, excludedPlaces ...place.Place) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]struct{}, len(excludedPlaces))
	for _, p := range excludedPlaces {
		excluded[p.ID] = struct{}{}
	}
	for _, plc := range repo.db.places {
		if _, ok := excluded[plc.ID]; ok {
			continue
		}
		if strings.EqualFold(plc.Name, name) {
			return place.ErrPlaceExists
		}
	}
	return nil
}

func (repo *placeRepository) CreatePlace(_ context.Context, plc place.Place) (place.Place, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	plc.ID = uuid.New().String()
	repo.db.places[plc.ID] = &plc
	return plc, nil
}

func (repo *placeRepository) QueryPlaces(_ context.Context, filter *place.QueryFilter, _ []core.DBOrdering) ([]place.Place, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	places := make([]place.Place, 0, len(repo.db.places))
	for _, plc := range repo.db.places {
		if filter != nil && filter.Search != "" &&
			!strings.Contains(strings.ToLower(plc.Name), strings.ToLower(filter.Search)) {
			continue
		}
		places = append(places, *plc)
	}
	sort.Slice(places, func(i, j int) bool { return places[i].Name < places[j].Name })
	return places, nil
}

func (repo *placeRepository) GetPlaceByID(_ context.Context, id string) (place.Place, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if plc, ok := repo.db.places[id]; ok {
		return *plc, nil
	}
	return place.Place{}, place.ErrNotFound
}

func (repo *placeRepository) DeletePlacesByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.places[id]; ok {
			delete(repo.db.places, id)
			cnt++
		}
	}
	return cnt, nil
}
