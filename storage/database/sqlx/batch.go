package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/batch"
)

type batchRepository struct {
	db *sqlx.DB
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *sqlx.DB) *batchRepository {
	return &batchRepository{db: db}
}

type batchRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	PlaceID   string    `db:"place_id"`
	CreatedAt null.Time `db:"created_at"`
	UpdatedAt null.Time `db:"updated_at"`
}

func (row batchRow) toCore() batch.Batch {
	return batch.Batch{
		ID:        row.ID,
		Name:      row.Name,
		PlaceID:   row.PlaceID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo batchRepository) CheckBatchUniqueness(ctx context.Context, name, placeID string, excludedBatches ...batch.Batch) error {
	query := `SELECT EXISTS (SELECT 1 FROM batch WHERE lower(name) = lower($1) AND place_id = $2)`
	args := []interface{}{name, placeID}
	if len(excludedBatches) > 0 {
		ids := make([]string, 0, len(excludedBatches))
		for _, b := range excludedBatches {
			ids = append(ids, b.ID)
		}
		q, inArgs, err := sqlx.In(
			`SELECT EXISTS (SELECT 1 FROM batch WHERE lower(name) = lower(?) AND place_id = ? AND id NOT IN (?))`,
			name, placeID, ids,
		)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query, args = repo.db.Rebind(q), inArgs
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking batch uniqueness")
	}
	if exists {
		return batch.ErrBatchExists
	}
	return nil
}

func (repo batchRepository) CreateBatch(ctx context.Context, bat batch.Batch) (batch.Batch, error) {
	bat.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO batch (id, name, place_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		bat.ID, bat.Name, bat.PlaceID, bat.CreatedAt, bat.UpdatedAt,
	)
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "inserting batch")
	}
	return bat, nil
}

func (repo batchRepository) QueryBatchesByPlace(ctx context.Context, placeID string, filter *batch.QueryFilter, ordering []core.DBOrdering) ([]batch.Batch, error) {
	query := `SELECT id, name, place_id, created_at, updated_at FROM batch WHERE place_id = $1`
	args := []interface{}{placeID}
	if filter != nil && filter.Search != "" {
		query += ` AND name ILIKE $2`
		args = append(args, "%"+filter.Search+"%")
	}
	query += orderBy(ordering, "name ASC")

	var rows []batchRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying batches")
	}

	batches := make([]batch.Batch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, row.toCore())
	}
	return batches, nil
}

func (repo batchRepository) GetBatchByID(ctx context.Context, id string) (batch.Batch, error) {
	if _, err := uuid.Parse(id); err != nil {
		return batch.Batch{}, batch.ErrNotFound
	}
	var row batchRow
	err := repo.db.GetContext(ctx, &row, `SELECT id, name, place_id, created_at, updated_at FROM batch WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return batch.Batch{}, batch.ErrNotFound
		}
		return batch.Batch{}, errors.Wrap(err, "finding batch by ID")
	}
	return row.toCore(), nil
}

func (repo batchRepository) DeleteBatchesByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM batch WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting batches")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
