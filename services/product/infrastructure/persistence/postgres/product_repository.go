package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/database"
	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/kernel"
	productdomain "github.com/ghuser/pantry/services/product/domain"
	"github.com/ghuser/pantry/services/product/domain/models"
	"github.com/ghuser/pantry/services/product/infrastructure/persistence/postgres/db"
)

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewProductRepository returns a ProductRepository. A nil bus skips event publishing.
func NewProductRepository(database *database.Database, bus *events.EventBus) *ProductRepository {
	return &ProductRepository{db: database, bus: bus}
}

func (r *ProductRepository) Add(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return txRepositories(tx, r.bus).Products.Add(ctx, p)
	})
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return txRepositories(tx, r.bus).Products.Update(ctx, p)
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return getProduct(ctx, db.New(r.db.DB()).GetProductByID, id)
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*models.Product, error) {
	return listProducts(ctx, db.New(r.db.DB()))
}

func (r *ProductRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	return productDuplicate(ctx, db.New(r.db.DB()), name, mt)
}

type txProducts struct {
	txBinding
}

func (r *txProducts) Add(ctx context.Context, p *models.Product) error {
	if err := r.q.InsertProduct(ctx, db.InsertProductParams{
		ID:            p.ID(),
		Name:          p.Name().String(),
		MeasureTypeID: int32(p.MeasureType().ID()),
		IsArchive:     p.IsArchive(),
		CreatedAt:     p.CreatedAt(),
	}); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == productsPrimaryKey {
				return kernel.IDAlreadyExists(p.ID(), productdomain.ProductKind)
			}
			return kernel.UniqueViolation(productdomain.ProductKind, p.Name(), p.MeasureType())
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.publish(ctx, p.PullEvents())
}

func (r *txProducts) Update(ctx context.Context, p *models.Product) error {
	n, err := r.q.UpdateProductArchive(ctx, db.UpdateProductArchiveParams{ID: p.ID(), IsArchive: p.IsArchive()})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		// the row is missing or another transaction already applied the transition
		if _, err := getProduct(ctx, r.q.GetProductByID, p.ID()); err != nil {
			return err
		}
		return kernel.AlreadyInState(p.ID(), productdomain.ProductKind, p.IsArchive())
	}
	return r.publish(ctx, p.PullEvents())
}

// GetByID locks the row until the transaction ends.
func (r *txProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return getProduct(ctx, r.q.GetProductByIDForUpdate, id)
}

func (r *txProducts) GetAll(ctx context.Context) ([]*models.Product, error) {
	return listProducts(ctx, r.q)
}

func (r *txProducts) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	return productDuplicate(ctx, r.q, name, mt)
}

func getProduct(ctx context.Context, fetch func(context.Context, uuid.UUID) (db.ProductProduct, error), id uuid.UUID) (*models.Product, error) {
	row, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kernel.NotFound(id, productdomain.ProductKind)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return rowToProduct(row)
}

func listProducts(ctx context.Context, q *db.Queries) ([]*models.Product, error) {
	rows, err := q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	out := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func productDuplicate(ctx context.Context, q *db.Queries, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	exists, err := q.ProductDuplicateExists(ctx, db.ProductDuplicateExistsParams{
		Lower:         name.String(),
		MeasureTypeID: int32(mt.ID()),
	})
	if err != nil {
		return false, fmt.Errorf("check product duplicate: %w", err)
	}
	return exists, nil
}

func rowToProduct(row db.ProductProduct) (*models.Product, error) {
	mt, err := kernel.MeasureTypeFromID(int(row.MeasureTypeID))
	if err != nil {
		return nil, fmt.Errorf("product %s: measure type %d: %w", row.ID, row.MeasureTypeID, err)
	}
	return models.RestoreProduct(row.ID, kernel.Name(row.Name), mt, row.IsArchive, row.CreatedAt), nil
}
