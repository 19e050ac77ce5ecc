package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	pkgcache "github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/pkg/logger"
	productdomain "github.com/ghuser/pantry/services/product/domain"
	"github.com/ghuser/pantry/services/product/domain/models"
	"github.com/ghuser/pantry/services/product/domain/repositories"
)

// ProductService handles the product commands and queries.
type ProductService struct {
	instrumented
	uow   repositories.UnitOfWork
	repo  repositories.ProductRepository
	cache EntryCache
}

// NewProductService returns a ProductService. uow runs commands; repo serves queries.
func NewProductService(uow repositories.UnitOfWork, repo repositories.ProductRepository, log logger.Logger, opts ...Option) *ProductService {
	o := buildOptions(opts)
	return &ProductService{
		instrumented: instrumented{commands: o.commands, log: log},
		uow:          uow,
		repo:         repo,
		cache:        o.cache,
	}
}

// Create adds a product. measureTypeID selects the measure type (1 weight, 2 liquid).
// Fails with product.unique.violation when the name (case-insensitive) and
// measure type are taken, archived products included.
func (s *ProductService) Create(ctx context.Context, name string, measureTypeID int) (p *models.Product, err error) {
	ctx, span := s.start(ctx, "product.create", attribute.Int("measure_type.id", measureTypeID))
	defer func() { s.finish(ctx, span, "product.create", err) }()

	mt, err := kernel.MeasureTypeFromID(measureTypeID)
	if err != nil {
		return nil, err
	}
	p, err = models.NewProduct(name, mt)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		dup, err := repos.Products.CheckDuplicate(ctx, p.Name(), p.MeasureType())
		if err != nil {
			return err
		}
		if dup {
			return kernel.UniqueViolation(productdomain.ProductKind, p.Name(), p.MeasureType())
		}
		return repos.Products.Add(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.InfoContext(ctx, "product created", "product_id", p.ID(), "measure_type", mt.Name())
	return p, nil
}

// Archive moves an active product to the archive.
func (s *ProductService) Archive(ctx context.Context, id uuid.UUID) (p *models.Product, err error) {
	ctx, span := s.start(ctx, "product.archive", attribute.String("product.id", id.String()))
	defer func() { s.finish(ctx, span, "product.archive", err) }()

	p, err = s.transition(ctx, id, (*models.Product).Archive)
	if err != nil {
		return nil, fmt.Errorf("archive product: %w", err)
	}
	return p, nil
}

// Unarchive returns an archived product to active use.
func (s *ProductService) Unarchive(ctx context.Context, id uuid.UUID) (p *models.Product, err error) {
	ctx, span := s.start(ctx, "product.unarchive", attribute.String("product.id", id.String()))
	defer func() { s.finish(ctx, span, "product.unarchive", err) }()

	p, err = s.transition(ctx, id, (*models.Product).Unarchive)
	if err != nil {
		return nil, fmt.Errorf("unarchive product: %w", err)
	}
	return p, nil
}

func (s *ProductService) transition(ctx context.Context, id uuid.UUID, apply func(*models.Product) error) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, kernel.ValueRequired("id")
	}

	var p *models.Product
	err := s.uow.Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		var err error
		if p, err = repos.Products.GetByID(ctx, id); err != nil {
			return err
		}
		if err := apply(p); err != nil {
			return err
		}
		return repos.Products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, s.cache, id)
	s.log.InfoContext(ctx, "product archive state changed", "product_id", id, "is_archive", p.IsArchive())
	return p, nil
}

// Get retrieves a product through the read-through cache.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, kernel.ValueRequired("id")
	}

	var (
		gen  int64
		warm bool
	)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if mt, err := kernel.MeasureTypeFromID(cached.MeasureTypeID); err == nil {
				return models.RestoreProduct(cached.ID, kernel.Name(cached.Name), mt, cached.IsArchive, cached.CreatedAt), nil
			}
			s.log.WarnContext(ctx, "discarding unreadable cache entry", "product_id", id)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
		gen, warm = s.generation(ctx, s.cache, id)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if warm {
		s.warm(ctx, s.cache, ProductEntry(p), gen)
	}
	return p, nil
}

// List returns all products, archived ones included, oldest first.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

// ProductEntry is the cache representation of p.
func ProductEntry(p *models.Product) *pkgcache.CachedEntry {
	return &pkgcache.CachedEntry{
		ID:            p.ID(),
		Name:          p.Name().String(),
		MeasureTypeID: p.MeasureType().ID(),
		MeasureType:   p.MeasureType().Name(),
		IsArchive:     p.IsArchive(),
		CreatedAt:     p.CreatedAt(),
	}
}
