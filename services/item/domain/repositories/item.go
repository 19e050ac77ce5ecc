package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Add and Update publish the events the aggregate recorded.
type ItemRepository interface {
	Add(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error

	// GetByID returns a not_found *kernel.Error (item.is.not.exists) when id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// GetAll returns every item, archived ones included, oldest first.
	GetAll(ctx context.Context) ([]*models.Item, error)

	// CheckDuplicate reports whether an item with the same name
	// (case-insensitive) and measure type name already exists.
	CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error)
}

// UnitOfWork runs fn against a transactional ItemRepository.
// Changes commit once when fn returns nil and roll back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repo ItemRepository) error) error
}
