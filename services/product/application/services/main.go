package services

import (
	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/telemetry"
	"github.com/ghuser/pantry/services/product/infrastructure/persistence/postgres"
)

// Catalog cache namespaces of this context.
const (
	ProductCacheNamespace = "product"
	MeasureCacheNamespace = "measure"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Product *ProductService
	Measure *MeasureService
}

// New wires the product context services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repos := postgres.NewRepositories(a.Db, a.EventBus)
	uow := postgres.NewUnitOfWork(a.Db, a.EventBus)

	var common []Option
	if counter, err := telemetry.NewCommandCounter("product"); err != nil {
		a.Logger.Warn("product command counter unavailable", "error", err)
	} else {
		common = append(common, WithCommandCounter(counter))
	}

	productOpts, measureOpts := common, append([]Option{}, common...)
	if a.Redis != nil {
		productOpts = append(productOpts, WithCache(cache.NewCatalogCache(a.Redis, ProductCacheNamespace)))
		measureOpts = append(measureOpts, WithCache(cache.NewCatalogCache(a.Redis, MeasureCacheNamespace)))
	}

	return &Services{
		Product: NewProductService(uow, repos.Products, a.Logger, productOpts...),
		Measure: NewMeasureService(uow, repos.Measures, a.Logger, measureOpts...),
	}
}
