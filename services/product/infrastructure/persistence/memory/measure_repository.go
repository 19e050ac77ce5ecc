package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	productdomain "github.com/ghuser/pantry/services/product/domain"
	"github.com/ghuser/pantry/services/product/domain/models"
)

type measureRow struct {
	id          uuid.UUID
	fullName    models.MeasureFullName
	shortName   models.MeasureShortName
	measureType kernel.MeasureType
	isArchive   bool
	createdAt   time.Time
}

func (r measureRow) toMeasure() *models.Measure {
	return models.RestoreMeasure(r.id, r.fullName, r.shortName, r.measureType, r.isArchive, r.createdAt)
}

// measureRepository works on a view without locking.
type measureRepository struct {
	v view
}

func (r measureRepository) Add(ctx context.Context, m *models.Measure) error {
	if _, exists := r.v.state.measures.rows[m.ID()]; exists {
		return kernel.IDAlreadyExists(m.ID(), productdomain.MeasureKind)
	}
	if dup, _ := r.CheckDuplicate(ctx, m.FullName(), m.MeasureType()); dup {
		return kernel.UniqueViolation(productdomain.MeasureKind, kernel.Name(m.FullName()), m.MeasureType())
	}
	r.v.state.measures.insert(m.ID(), measureRow{
		id:          m.ID(),
		fullName:    m.FullName(),
		shortName:   m.ShortName(),
		measureType: m.MeasureType(),
		isArchive:   m.IsArchive(),
		createdAt:   m.CreatedAt(),
	})
	r.v.publish(m.PullEvents())
	return nil
}

func (r measureRepository) Update(ctx context.Context, m *models.Measure) error {
	row, ok := r.v.state.measures.rows[m.ID()]
	if !ok {
		return kernel.NotFound(m.ID(), productdomain.MeasureKind)
	}
	if row.isArchive == m.IsArchive() {
		return kernel.AlreadyInState(m.ID(), productdomain.MeasureKind, m.IsArchive())
	}
	row.isArchive = m.IsArchive()
	r.v.state.measures.rows[m.ID()] = row
	r.v.publish(m.PullEvents())
	return nil
}

func (r measureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Measure, error) {
	row, ok := r.v.state.measures.rows[id]
	if !ok {
		return nil, kernel.NotFound(id, productdomain.MeasureKind)
	}
	return row.toMeasure(), nil
}

func (r measureRepository) GetAll(ctx context.Context) ([]*models.Measure, error) {
	rows := r.v.state.measures.all()
	out := make([]*models.Measure, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toMeasure())
	}
	return out, nil
}

func (r measureRepository) CheckDuplicate(ctx context.Context, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error) {
	for _, row := range r.v.state.measures.rows {
		if strings.EqualFold(row.fullName.String(), fullName.String()) && row.measureType.ID() == mt.ID() {
			return true, nil
		}
	}
	return false, nil
}

// lockedMeasures guards measureRepository with the store lock.
type lockedMeasures struct {
	store *Store
}

func (l *lockedMeasures) Add(ctx context.Context, m *models.Measure) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return measureRepository{v: l.store.view()}.Add(ctx, m)
}

func (l *lockedMeasures) Update(ctx context.Context, m *models.Measure) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return measureRepository{v: l.store.view()}.Update(ctx, m)
}

func (l *lockedMeasures) GetByID(ctx context.Context, id uuid.UUID) (*models.Measure, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return measureRepository{v: l.store.view()}.GetByID(ctx, id)
}

func (l *lockedMeasures) GetAll(ctx context.Context) ([]*models.Measure, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return measureRepository{v: l.store.view()}.GetAll(ctx)
}

func (l *lockedMeasures) CheckDuplicate(ctx context.Context, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return measureRepository{v: l.store.view()}.CheckDuplicate(ctx, fullName, mt)
}
