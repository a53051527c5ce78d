package place

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Place is a city in which batches are run.
type Place struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewPlace contains information needed to create a new Place.
type NewPlace struct {
	Name string `json:"name" validate:"required,alphanum_"`
}

func (np *NewPlace) Validate(validate *validator.Validate, svc *Service) error {
	np.Name = core.CleanString(np.Name)

	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.checkUniqueness(np.Name)
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
