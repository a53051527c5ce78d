package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/place"
)

type placeRepository struct {
	db *sqlx.DB
}

var _ place.Repository = (*placeRepository)(nil) // interface compliance check

func NewPlaceRepository(db *sqlx.DB) *placeRepository {
	return &placeRepository{db: db}
}

type placeRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt null.Time `db:"created_at"`
	UpdatedAt null.Time `db:"updated_at"`
}

func (row placeRow) toCore() place.Place {
	return place.Place{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo placeRepository) CheckPlaceUniqueness(ctx context.Context, name string, excludedPlaces ...place.Place) error {
	query := `SELECT EXISTS (SELECT 1 FROM place WHERE lower(name) = lower($1))`
	args := []interface{}{name}
	if len(excludedPlaces) > 0 {
		ids := make([]string, 0, len(excludedPlaces))
		for _, p := range excludedPlaces {
			ids = append(ids, p.ID)
		}
		q, inArgs, err := sqlx.In(`SELECT EXISTS (SELECT 1 FROM place WHERE lower(name) = lower(?) AND id NOT IN (?))`, name, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query, args = repo.db.Rebind(q), inArgs
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking place uniqueness")
	}
	if exists {
		return place.ErrPlaceExists
	}
	return nil
}

func (repo placeRepository) CreatePlace(ctx context.Context, plc place.Place) (place.Place, error) {
	plc.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO place (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		plc.ID, plc.Name, plc.CreatedAt, plc.UpdatedAt,
	)
	if err != nil {
		return place.Place{}, errors.Wrap(err, "inserting place")
	}
	return plc, nil
}

func (repo placeRepository) QueryPlaces(ctx context.Context, filter *place.QueryFilter, ordering []core.DBOrdering) ([]place.Place, error) {
	query := `SELECT id, name, created_at, updated_at FROM place`
	var args []interface{}
	if filter != nil && filter.Search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}
	query += orderBy(ordering, "name ASC")

	var rows []placeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying places")
	}

	places := make([]place.Place, 0, len(rows))
	for _, row := range rows {
		places = append(places, row.toCore())
	}
	return places, nil
}

func (repo placeRepository) GetPlaceByID(ctx context.Context, id string) (place.Place, error) {
	if _, err := uuid.Parse(id); err != nil {
		return place.Place{}, place.ErrNotFound
	}
	var row placeRow
	err := repo.db.GetContext(ctx, &row, `SELECT id, name, created_at, updated_at FROM place WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return place.Place{}, place.ErrNotFound
		}
		return place.Place{}, errors.Wrap(err, "finding place by ID")
	}
	return row.toCore(), nil
}

func (repo placeRepository) DeletePlacesByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM place WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting places")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}

// orderBy renders an ORDER BY clause from the requested ordering, falling
// back to the given default.
func orderBy(ordering []core.DBOrdering, dflt string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + dflt
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
