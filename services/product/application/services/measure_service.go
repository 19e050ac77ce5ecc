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

// MeasureService handles the measure commands and queries.
type MeasureService struct {
	instrumented
	uow   repositories.UnitOfWork
	repo  repositories.MeasureRepository
	cache EntryCache
}

// NewMeasureService returns a MeasureService. uow runs commands; repo serves queries.
func NewMeasureService(uow repositories.UnitOfWork, repo repositories.MeasureRepository, log logger.Logger, opts ...Option) *MeasureService {
	o := buildOptions(opts)
	return &MeasureService{
		instrumented: instrumented{commands: o.commands, log: log},
		uow:          uow,
		repo:         repo,
		cache:        o.cache,
	}
}

// Create adds a unit of measure. Fails with measure.unique.violation when the
// full name (case-insensitive) and measure type are taken.
func (s *MeasureService) Create(ctx context.Context, fullName, shortName string, measureTypeID int) (m *models.Measure, err error) {
	ctx, span := s.start(ctx, "measure.create", attribute.Int("measure_type.id", measureTypeID))
	defer func() { s.finish(ctx, span, "measure.create", err) }()

	mt, err := kernel.MeasureTypeFromID(measureTypeID)
	if err != nil {
		return nil, err
	}
	m, err = models.NewMeasure(fullName, shortName, mt)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		dup, err := repos.Measures.CheckDuplicate(ctx, m.FullName(), m.MeasureType())
		if err != nil {
			return err
		}
		if dup {
			return kernel.UniqueViolation(productdomain.MeasureKind, kernel.Name(m.FullName()), m.MeasureType())
		}
		return repos.Measures.Add(ctx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("create measure: %w", err)
	}

	s.log.InfoContext(ctx, "measure created", "measure_id", m.ID(), "short_name", m.ShortName().String())
	return m, nil
}

func (s *MeasureService) Archive(ctx context.Context, id uuid.UUID) (m *models.Measure, err error) {
	ctx, span := s.start(ctx, "measure.archive", attribute.String("measure.id", id.String()))
	defer func() { s.finish(ctx, span, "measure.archive", err) }()

	m, err = s.transition(ctx, id, (*models.Measure).Archive)
	if err != nil {
		return nil, fmt.Errorf("archive measure: %w", err)
	}
	return m, nil
}

func (s *MeasureService) Unarchive(ctx context.Context, id uuid.UUID) (m *models.Measure, err error) {
	ctx, span := s.start(ctx, "measure.unarchive", attribute.String("measure.id", id.String()))
	defer func() { s.finish(ctx, span, "measure.unarchive", err) }()

	m, err = s.transition(ctx, id, (*models.Measure).Unarchive)
	if err != nil {
		return nil, fmt.Errorf("unarchive measure: %w", err)
	}
	return m, nil
}

func (s *MeasureService) transition(ctx context.Context, id uuid.UUID, apply func(*models.Measure) error) (*models.Measure, error) {
	if id == uuid.Nil {
		return nil, kernel.ValueRequired("id")
	}

	var m *models.Measure
	err := s.uow.Do(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		var err error
		if m, err = repos.Measures.GetByID(ctx, id); err != nil {
			return err
		}
		if err := apply(m); err != nil {
			return err
		}
		return repos.Measures.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, s.cache, id)
	s.log.InfoContext(ctx, "measure archive state changed", "measure_id", id, "is_archive", m.IsArchive())
	return m, nil
}

// Get retrieves a measure through the read-through cache.
func (s *MeasureService) Get(ctx context.Context, id uuid.UUID) (*models.Measure, error) {
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
				return models.RestoreMeasure(cached.ID, models.MeasureFullName(cached.Name),
					models.MeasureShortName(cached.ShortName), mt, cached.IsArchive, cached.CreatedAt), nil
			}
			s.log.WarnContext(ctx, "discarding unreadable cache entry", "measure_id", id)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "measure cache read failed", "measure_id", id, "error", err)
		}
		gen, warm = s.generation(ctx, s.cache, id)
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get measure: %w", err)
	}
	if warm {
		s.warm(ctx, s.cache, MeasureEntry(m), gen)
	}
	return m, nil
}

// List returns all measures, archived ones included, oldest first.
func (s *MeasureService) List(ctx context.Context) ([]*models.Measure, error) {
	measures, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list measures: %w", err)
	}
	if measures == nil {
		measures = []*models.Measure{}
	}
	return measures, nil
}

// MeasureEntry is the cache representation of m. The full name is stored as Name.
func MeasureEntry(m *models.Measure) *pkgcache.CachedEntry {
	return &pkgcache.CachedEntry{
		ID:            m.ID(),
		Name:          m.FullName().String(),
		ShortName:     m.ShortName().String(),
		MeasureTypeID: m.MeasureType().ID(),
		MeasureType:   m.MeasureType().Name(),
		IsArchive:     m.IsArchive(),
		CreatedAt:     m.CreatedAt(),
	}
}
