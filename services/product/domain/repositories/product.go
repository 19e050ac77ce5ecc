package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/product/domain/models"
)

// ProductRepository is the persistence interface for the Product aggregate.
// Add and Update publish the events the aggregate recorded.
type ProductRepository interface {
	Add(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	// GetByID returns product.is.not.exists when id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAll(ctx context.Context) ([]*models.Product, error)
	// CheckDuplicate matches the name case-insensitively and the measure type by id.
	CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error)
}

// MeasureRepository is the persistence interface for the Measure aggregate.
type MeasureRepository interface {
	Add(ctx context.Context, m *models.Measure) error
	Update(ctx context.Context, m *models.Measure) error
	// GetByID returns measure.is.not.exists when id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Measure, error)
	GetAll(ctx context.Context) ([]*models.Measure, error)
	// CheckDuplicate matches the full name case-insensitively and the measure type by id.
	CheckDuplicate(ctx context.Context, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error)
}

// Repositories groups the repositories of this context that share a transaction.
type Repositories struct {
	Products ProductRepository
	Measures MeasureRepository
}

// UnitOfWork runs fn against transactional repositories.
// Changes commit once when fn returns nil and roll back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
