package batch_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/batch"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func newTestValidator() *validator.Validate {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := batch.NewService(inmemdb.NewBatchRepository(inmemdb.NewDB()))
	validate := newTestValidator()

	nb := batch.NewBatch{Name: "Batch A", PlaceID: "p1"}
	if err := nb.Validate(validate, svc); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	bat, err := svc.Create(ctx, nb)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if bat.ID == "" {
		t.Error("Create() did not assign an ID")
	}

	// same name within the same place fails validation
	dup := batch.NewBatch{Name: "batch a", PlaceID: "p1"}
	if err = dup.Validate(validate, svc); err == nil {
		t.Error("Validate() expected uniqueness error")
	} else if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("Validate() error = %v, want *core.ValidationError", err)
	}

	// same name in another place is fine
	other := batch.NewBatch{Name: "Batch A", PlaceID: "p2"}
	if err = other.Validate(validate, svc); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestServiceQueryByPlace(t *testing.T) {
	ctx := context.Background()
	svc := batch.NewService(inmemdb.NewBatchRepository(inmemdb.NewDB()))

	_, _ = svc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: "p1"})
	_, _ = svc.Create(ctx, batch.NewBatch{Name: "Evening", PlaceID: "p1"})
	_, _ = svc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: "p2"})

	tests := []struct {
		name    string
		placeID string
		filter  *batch.QueryFilter
		want    []string
	}{
		{name: "place scoped, name-ordered", placeID: "p1", want: []string{"Evening", "Morning"}},
		{name: "search", placeID: "p1", filter: &batch.QueryFilter{Search: "morn"}, want: []string{"Morning"}},
		{name: "other place", placeID: "p2", want: []string{"Morning"}},
		{name: "unknown place", placeID: "p3", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bats, err := svc.QueryByPlace(ctx, tt.placeID, tt.filter, nil)
			if err != nil {
				t.Fatalf("QueryByPlace() error = %v", err)
			}
			if len(bats) != len(tt.want) {
				t.Fatalf("QueryByPlace() len = %d, want %d", len(bats), len(tt.want))
			}
			for i, name := range tt.want {
				if bats[i].Name != name {
					t.Errorf("QueryByPlace()[%d].Name = %s, want %s", i, bats[i].Name, name)
				}
			}
		})
	}
}

func TestServiceGetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := batch.NewService(inmemdb.NewBatchRepository(inmemdb.NewDB()))

	bat, _ := svc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: "p1"})

	got, err := svc.GetByID(ctx, bat.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Morning" || got.PlaceID != "p1" {
		t.Errorf("GetByID() = %+v", got)
	}
	if _, err = svc.GetByID(ctx, "nope"); err != batch.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, batch.ErrNotFound)
	}

	cnt, err := svc.Delete(ctx, bat.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if cnt != 1 {
		t.Errorf("Delete() = %d, want 1", cnt)
	}
	if _, err = svc.GetByID(ctx, bat.ID); err != batch.ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want %v", err, batch.ErrNotFound)
	}
}
