package services

import (
	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/telemetry"
	"github.com/ghuser/pantry/services/item/infrastructure/persistence/postgres"
)

// CacheNamespace is the catalog cache namespace for items.
const CacheNamespace = "item"

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db, a.EventBus)
	uow := postgres.NewUnitOfWork(a.Db, a.EventBus)

	opts := []ItemServiceOption{}
	if a.Redis != nil {
		opts = append(opts, WithCache(cache.NewCatalogCache(a.Redis, CacheNamespace)))
	}
	if counter, err := telemetry.NewCommandCounter("item"); err != nil {
		a.Logger.Warn("item command counter unavailable", "error", err)
	} else {
		opts = append(opts, WithCommandCounter(counter))
	}

	return &Services{
		Item: NewItemService(uow, repo, a.Logger, opts...),
	}
}
