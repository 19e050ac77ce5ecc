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

type productRow struct {
	id          uuid.UUID
	name        kernel.Name
	measureType kernel.MeasureType
	isArchive   bool
	createdAt   time.Time
}

func (r productRow) toProduct() *models.Product {
	return models.RestoreProduct(r.id, r.name, r.measureType, r.isArchive, r.createdAt)
}

// productRepository works on a view without locking.
type productRepository struct {
	v view
}

func (r productRepository) Add(ctx context.Context, p *models.Product) error {
	if _, ok := r.v.state.products.rows[p.ID()]; ok {
		return kernel.IDAlreadyExists(p.ID(), productdomain.ProductKind)
	}
	if dup, _ := r.CheckDuplicate(ctx, p.Name(), p.MeasureType()); dup {
		return kernel.UniqueViolation(productdomain.ProductKind, p.Name(), p.MeasureType())
	}
	r.v.state.products.insert(p.ID(), productRow{
		id:          p.ID(),
		name:        p.Name(),
		measureType: p.MeasureType(),
		isArchive:   p.IsArchive(),
		createdAt:   p.CreatedAt(),
	})
	r.v.publish(p.PullEvents())
	return nil
}

func (r productRepository) Update(ctx context.Context, p *models.Product) error {
	row, ok := r.v.state.products.rows[p.ID()]
	if !ok {
		return kernel.NotFound(p.ID(), productdomain.ProductKind)
	}
	if row.isArchive == p.IsArchive() {
		return kernel.AlreadyInState(p.ID(), productdomain.ProductKind, p.IsArchive())
	}
	row.isArchive = p.IsArchive()
	r.v.state.products.rows[p.ID()] = row
	r.v.publish(p.PullEvents())
	return nil
}

func (r productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, ok := r.v.state.products.rows[id]
	if !ok {
		return nil, kernel.NotFound(id, productdomain.ProductKind)
	}
	return row.toProduct(), nil
}

func (r productRepository) GetAll(ctx context.Context) ([]*models.Product, error) {
	rows := r.v.state.products.all()
	out := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

func (r productRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	for _, row := range r.v.state.products.rows {
		if strings.EqualFold(row.name.String(), name.String()) && row.measureType.ID() == mt.ID() {
			return true, nil
		}
	}
	return false, nil
}

// lockedProducts guards productRepository with the store lock.
type lockedProducts struct {
	store *Store
}

func (l *lockedProducts) Add(ctx context.Context, p *models.Product) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return productRepository{v: l.store.view()}.Add(ctx, p)
}

func (l *lockedProducts) Update(ctx context.Context, p *models.Product) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return productRepository{v: l.store.view()}.Update(ctx, p)
}

func (l *lockedProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return productRepository{v: l.store.view()}.GetByID(ctx, id)
}

func (l *lockedProducts) GetAll(ctx context.Context) ([]*models.Product, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return productRepository{v: l.store.view()}.GetAll(ctx)
}

func (l *lockedProducts) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return productRepository{v: l.store.view()}.CheckDuplicate(ctx, name, mt)
}
