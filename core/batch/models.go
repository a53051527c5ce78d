package batch

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Batch is a cohort of students within one place.
type Batch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PlaceID   string    `json:"place_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewBatch contains information needed to create a new Batch.
type NewBatch struct {
	Name    string `json:"name" validate:"required,alphanum_"`
	PlaceID string `json:"place_id" validate:"required"`
}

func (nb *NewBatch) Validate(validate *validator.Validate, svc *Service) error {
	nb.Name = core.CleanString(nb.Name)
	nb.PlaceID = core.CleanString(nb.PlaceID)

	if err := validate.Struct(nb); err != nil {
		return err
	}
	return svc.checkUniqueness(nb.Name, nb.PlaceID)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
