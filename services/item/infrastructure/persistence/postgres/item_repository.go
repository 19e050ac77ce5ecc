package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/pantry/pkg/database"
	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/kernel"
	itemdomain "github.com/ghuser/pantry/services/item/domain"
	"github.com/ghuser/pantry/services/item/domain/models"
	"github.com/ghuser/pantry/services/item/domain/repositories"
	"github.com/ghuser/pantry/services/item/infrastructure/persistence/postgres/db"
)

const (
	pgUniqueViolation = "23505"
	itemsPrimaryKey   = "items_pkey"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// Each write runs in its own transaction together with its outbox events.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. A nil bus skips event publishing.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Add inserts a new Item and publishes its recorded events in the same transaction.
func (r *ItemRepository) Add(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return newTxRepository(tx, r.bus).Add(ctx, item)
	})
}

// Update persists the archive flag of an existing Item and publishes its events.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return newTxRepository(tx, r.bus).Update(ctx, item)
	})
}

// GetByID retrieves an Item by ID. Returns item.is.not.exists if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return getByID(ctx, db.New(r.db.DB()).GetItemByID, id)
}

// GetAll retrieves every item ordered by creation time.
func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	return getAll(ctx, db.New(r.db.DB()))
}

// CheckDuplicate matches the name case-insensitively and the measure type by name.
func (r *ItemRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	return checkDuplicate(ctx, db.New(r.db.DB()), name, mt)
}

// UnitOfWork implements repositories.UnitOfWork with one SQL transaction per Do.
type UnitOfWork struct {
	db  *database.Database
	bus *events.EventBus
}

// NewUnitOfWork returns a UnitOfWork over the given pool. A nil bus skips event publishing.
func NewUnitOfWork(database *database.Database, bus *events.EventBus) *UnitOfWork {
	return &UnitOfWork{db: database, bus: bus}
}

// Do runs fn inside a transaction. fn's error, or a panic, rolls everything back,
// outbox rows included.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repo repositories.ItemRepository) error) error {
	return u.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, newTxRepository(tx, u.bus))
	})
}

// txRepository is bound to one transaction.
type txRepository struct {
	tx  *sql.Tx
	q   *db.Queries
	bus *events.EventBus
}

func newTxRepository(tx *sql.Tx, bus *events.EventBus) *txRepository {
	return &txRepository{tx: tx, q: db.New(tx), bus: bus}
}

func (r *txRepository) Add(ctx context.Context, item *models.Item) error {
	if err := r.q.InsertItem(ctx, db.InsertItemParams{
		ID:            item.ID(),
		Name:          item.Name().String(),
		MeasureTypeID: int32(item.MeasureType().ID()),
		IsArchive:     item.IsArchive(),
		CreatedAt:     item.CreatedAt(),
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == itemsPrimaryKey {
				return itemdomain.ItemIDAlreadyExists(item.ID())
			}
			return kernel.UniqueViolation(itemdomain.ItemKind, item.Name(), item.MeasureType())
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return r.publish(ctx, item)
}

func (r *txRepository) Update(ctx context.Context, item *models.Item) error {
	n, err := r.q.UpdateItemArchive(ctx, db.UpdateItemArchiveParams{
		ID:        item.ID(),
		IsArchive: item.IsArchive(),
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		// the row is missing or another transaction already applied the transition
		if _, err := getByID(ctx, r.q.GetItemByID, item.ID()); err != nil {
			return err
		}
		return kernel.AlreadyInState(item.ID(), itemdomain.ItemKind, item.IsArchive())
	}
	return r.publish(ctx, item)
}

// GetByID locks the row until the transaction ends, so concurrent transitions
// of one item run one after the other.
func (r *txRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return getByID(ctx, r.q.GetItemByIDForUpdate, id)
}

func (r *txRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	return getAll(ctx, r.q)
}

func (r *txRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	return checkDuplicate(ctx, r.q, name, mt)
}

func (r *txRepository) publish(ctx context.Context, item *models.Item) error {
	evts := item.PullEvents()
	if r.bus == nil || len(evts) == 0 {
		return nil
	}
	if err := r.bus.PublishDomainEvents(ctx, r.tx, evts); err != nil {
		return fmt.Errorf("publish item events: %w", err)
	}
	return nil
}

func getByID(ctx context.Context, fetch func(context.Context, uuid.UUID) (db.ItemItem, error), id uuid.UUID) (*models.Item, error) {
	row, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kernel.NotFound(id, itemdomain.ItemKind)
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row)
}

func getAll(ctx context.Context, q *db.Queries) ([]*models.Item, error) {
	rows, err := q.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]*models.Item, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func checkDuplicate(ctx context.Context, q *db.Queries, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	exists, err := q.ItemDuplicateExists(ctx, db.ItemDuplicateExistsParams{
		Lower:   name.String(),
		Lower_2: mt.Name(),
	})
	if err != nil {
		return false, fmt.Errorf("check item duplicate: %w", err)
	}
	return exists, nil
}

// rowToItem maps a db.ItemItem to a domain models.Item.
func rowToItem(row db.ItemItem) (*models.Item, error) {
	mt, err := kernel.MeasureTypeFromID(int(row.MeasureTypeID))
	if err != nil {
		return nil, fmt.Errorf("item %s: measure type %d: %w", row.ID, row.MeasureTypeID, err)
	}
	return models.RestoreItem(row.ID, kernel.Name(row.Name), mt, row.IsArchive, row.CreatedAt), nil
}
