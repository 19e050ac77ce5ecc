package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/pkg/telemetry"
	itemdomain "github.com/ghuser/pantry/services/item/domain"
	"github.com/ghuser/pantry/services/item/domain/models"
	"github.com/ghuser/pantry/services/item/domain/repositories"
)

// EntryCache is the read model the service keeps in step with writes.
// *cache.CatalogCache satisfies it; Get returns redis.Nil on a miss.
// Delete bumps the generation, and SetIfGeneration refuses to write once the
// generation moved past the one read before loading the row.
type EntryCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedEntry, error)
	Generation(ctx context.Context, id uuid.UUID) (int64, error)
	SetIfGeneration(ctx context.Context, e *pkgcache.CachedEntry, gen int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemService handles the item commands (Create, Archive, Unarchive) and
// queries (Get, List). Event publishing is handled by the repository layer
// (outbox pattern). Reads are served from Redis cache when available.
type ItemService struct {
	uow      repositories.UnitOfWork
	repo     repositories.ItemRepository
	cache    EntryCache
	commands *telemetry.CommandCounter
	log      logger.Logger
}

// ItemServiceOption configures optional collaborators.
type ItemServiceOption func(*ItemService)

// WithCache enables the read-through cache.
func WithCache(c EntryCache) ItemServiceOption {
	return func(s *ItemService) { s.cache = c }
}

// WithCommandCounter records every command on c.
func WithCommandCounter(c *telemetry.CommandCounter) ItemServiceOption {
	return func(s *ItemService) { s.commands = c }
}

// NewItemService returns an ItemService. uow runs commands; repo serves queries.
func NewItemService(uow repositories.UnitOfWork, repo repositories.ItemRepository, log logger.Logger, opts ...ItemServiceOption) *ItemService {
	s := &ItemService{uow: uow, repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new item named name with the measure type called measureType
// (case-insensitive, e.g. "Weight"). Fails with item.unique.violation when an
// item with the same name and measure type exists, archived or not.
func (s *ItemService) Create(ctx context.Context, name, measureType string) (item *models.Item, err error) {
	ctx, span := s.start(ctx, "item.create")
	defer func() { s.finish(ctx, span, "create", err) }()

	mt, err := kernel.MeasureTypeFromName(measureType)
	if err != nil {
		return nil, err
	}
	item, err = models.NewItem(name, mt)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("item.id", item.ID().String()))

	err = s.uow.Do(ctx, func(ctx context.Context, repo repositories.ItemRepository) error {
		dup, err := repo.CheckDuplicate(ctx, item.Name(), item.MeasureType())
		if err != nil {
			return err
		}
		if dup {
			return kernel.UniqueViolation(itemdomain.ItemKind, item.Name(), item.MeasureType())
		}
		return repo.Add(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.InfoContext(ctx, "item created", "item_id", item.ID(), "measure_type", mt.Name())
	return item, nil
}

// Archive moves an active item to the archive.
func (s *ItemService) Archive(ctx context.Context, id uuid.UUID) (item *models.Item, err error) {
	ctx, span := s.start(ctx, "item.archive", attribute.String("item.id", id.String()))
	defer func() { s.finish(ctx, span, "archive", err) }()

	item, err = s.transition(ctx, id, (*models.Item).Archive)
	if err != nil {
		return nil, fmt.Errorf("archive item: %w", err)
	}
	return item, nil
}

// Unarchive returns an archived item to active use.
func (s *ItemService) Unarchive(ctx context.Context, id uuid.UUID) (item *models.Item, err error) {
	ctx, span := s.start(ctx, "item.unarchive", attribute.String("item.id", id.String()))
	defer func() { s.finish(ctx, span, "unarchive", err) }()

	item, err = s.transition(ctx, id, (*models.Item).Unarchive)
	if err != nil {
		return nil, fmt.Errorf("unarchive item: %w", err)
	}
	return item, nil
}

func (s *ItemService) transition(ctx context.Context, id uuid.UUID, apply func(*models.Item) error) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, kernel.ValueRequired("id")
	}

	var item *models.Item
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.ItemRepository) error {
		var err error
		item, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(item); err != nil {
			return err
		}
		return repo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.log.InfoContext(ctx, "item archive state changed", "item_id", id, "is_archive", item.IsArchive())
	return item, nil
}

// Get retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), read the cache generation, then query Postgres.
//  3. Asynchronously warm the cache with the Postgres result, unless a
//     transition invalidated the entry in the meantime.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, kernel.ValueRequired("id")
	}

	warm := false
	var gen int64
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if item, err := fromCache(cached); err == nil {
				return item, nil
			}
			s.log.WarnContext(ctx, "discarding unreadable cache entry", "item_id", id)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
		if gen, err = s.cache.Generation(ctx, id); err != nil {
			s.log.WarnContext(ctx, "item cache generation read failed", "item_id", id, "error", err)
		} else {
			warm = true
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if warm {
		entry := toCache(item)
		go func() {
			written, err := s.cache.SetIfGeneration(context.WithoutCancel(ctx), entry, gen)
			switch {
			case err != nil:
				s.log.WarnContext(ctx, "item cache warm failed", "item_id", entry.ID, "error", err)
			case !written:
				s.log.DebugContext(ctx, "item cache warm skipped, entry invalidated", "item_id", entry.ID)
			}
		}()
	}
	return item, nil
}

// List returns all items, archived ones included, oldest first.
// An empty catalog is an empty slice, not an error.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

func (s *ItemService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *ItemService) finish(ctx context.Context, span trace.Span, command string, err error) {
	s.commands.Record(ctx, command, err)
	if err != nil {
		span.RecordError(err)
		if telemetry.Outcome(err) == telemetry.OutcomeFailed {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func toCache(item *models.Item) *pkgcache.CachedEntry {
	return &pkgcache.CachedEntry{
		ID:            item.ID(),
		Name:          item.Name().String(),
		MeasureTypeID: item.MeasureType().ID(),
		MeasureType:   item.MeasureType().Name(),
		IsArchive:     item.IsArchive(),
		CreatedAt:     item.CreatedAt(),
	}
}

func fromCache(e *pkgcache.CachedEntry) (*models.Item, error) {
	mt, err := kernel.MeasureTypeFromID(e.MeasureTypeID)
	if err != nil {
		return nil, err
	}
	return models.RestoreItem(e.ID, kernel.Name(e.Name), mt, e.IsArchive, e.CreatedAt), nil
}
