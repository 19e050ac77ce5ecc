package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/product/domain/models"
	"github.com/ghuser/pantry/services/product/domain/repositories"
)

func TestProducts_DuplicateByTypeID(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	sugar, _ := models.NewProduct("Sugar", kernel.Weight)
	if err := repos.Products.Add(ctx, sugar); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name string
		mt   kernel.MeasureType
		want bool
	}{
		{"sugar", kernel.Weight, true},
		{"SUGAR", kernel.Weight, true},
		{"Sugar", kernel.Liquid, false},
		{"Salt", kernel.Weight, false},
	}
	for _, tt := range tests {
		got, err := repos.Products.CheckDuplicate(ctx, kernel.Name(tt.name), tt.mt)
		if err != nil || got != tt.want {
			t.Fatalf("CheckDuplicate(%q, %v) = %v, %v; want %v", tt.name, tt.mt, got, err, tt.want)
		}
	}

	clash, _ := models.NewProduct("sugar", kernel.Weight)
	if err := repos.Products.Add(ctx, clash); kernel.CodeOf(err) != "product.unique.violation" {
		t.Fatalf("expected product.unique.violation, got %v", err)
	}
}

func TestMeasures_GetAndNotFound(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	kg, _ := models.NewMeasure("Kilogram", "kg", kernel.Weight)
	if err := repos.Measures.Add(ctx, kg); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := repos.Measures.GetByID(ctx, kg.ID())
	if err != nil || got.ShortName() != "kg" {
		t.Fatalf("GetByID: %v, %v", got, err)
	}

	_, err = repos.Measures.GetByID(ctx, uuid.New())
	if !errors.Is(err, kernel.ErrNotFound) || kernel.CodeOf(err) != "measure.is.not.exists" {
		t.Fatalf("expected measure.is.not.exists, got %v", err)
	}

	again, _ := models.NewMeasure("KILOGRAM", "KG", kernel.Weight)
	if err := repos.Measures.Add(ctx, again); kernel.CodeOf(err) != "measure.unique.violation" {
		t.Fatalf("expected measure.unique.violation, got %v", err)
	}
}

func TestUnitOfWork_SpansBothRepositories(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.UnitOfWork().Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		p, _ := models.NewProduct("Milk", kernel.Liquid)
		m, _ := models.NewMeasure("Litre", "l", kernel.Liquid)
		if err := repos.Products.Add(ctx, p); err != nil {
			return err
		}
		if err := repos.Measures.Add(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	repos := store.Repositories()
	products, _ := repos.Products.GetAll(ctx)
	measures, _ := repos.Measures.GetAll(ctx)
	if len(products) != 0 || len(measures) != 0 || len(store.Published()) != 0 {
		t.Fatalf("rollback leaked: %d products, %d measures, %d events", len(products), len(measures), len(store.Published()))
	}

	err = store.UnitOfWork().Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		p, _ := models.NewProduct("Milk", kernel.Liquid)
		return repos.Products.Add(ctx, p)
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	products, _ = repos.Products.GetAll(ctx)
	if len(products) != 1 || len(store.Published()) != 1 {
		t.Fatalf("expected 1 product and 1 event, got %d and %d", len(products), len(store.Published()))
	}
}

func TestIDClashIsNotANameClash(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	sugar, _ := models.NewProduct("Sugar", kernel.Weight)
	if err := repos.Products.Add(ctx, sugar); err != nil {
		t.Fatalf("Add product: %v", err)
	}
	err := repos.Products.Add(ctx, sugar)
	if !errors.Is(err, kernel.ErrUniqueViolation) || kernel.CodeOf(err) != "product.id.already.exists" {
		t.Fatalf("product id clash: got %v", err)
	}

	kg, _ := models.NewMeasure("Kilogram", "kg", kernel.Weight)
	if err := repos.Measures.Add(ctx, kg); err != nil {
		t.Fatalf("Add measure: %v", err)
	}
	err = repos.Measures.Add(ctx, kg)
	if !errors.Is(err, kernel.ErrUniqueViolation) || kernel.CodeOf(err) != "measure.id.already.exists" {
		t.Fatalf("measure id clash: got %v", err)
	}
}

func TestStaleTransitionIsRejected(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	p, _ := models.NewProduct("Tea", kernel.Weight)
	if err := repos.Products.Add(ctx, p); err != nil {
		t.Fatalf("Add product: %v", err)
	}
	first, _ := repos.Products.GetByID(ctx, p.ID())
	second, _ := repos.Products.GetByID(ctx, p.ID())
	if err := first.Archive(); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := repos.Products.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := second.Archive(); err != nil {
		t.Fatalf("stale Archive: %v", err)
	}
	if err := repos.Products.Update(ctx, second); !errors.Is(err, kernel.ErrAlreadyArchived) {
		t.Fatalf("stale product update: got %v", err)
	}

	m, _ := models.NewMeasure("Litre", "l", kernel.Liquid)
	if err := repos.Measures.Add(ctx, m); err != nil {
		t.Fatalf("Add measure: %v", err)
	}
	stale, _ := repos.Measures.GetByID(ctx, m.ID())
	if err := stale.Unarchive(); !errors.Is(err, kernel.ErrAlreadyUnarchived) {
		t.Fatalf("fresh Unarchive: got %v", err)
	}
	// an update carrying the stored state is not a transition
	if err := repos.Measures.Update(ctx, stale); !errors.Is(err, kernel.ErrAlreadyUnarchived) {
		t.Fatalf("no-op measure update: got %v", err)
	}
}
