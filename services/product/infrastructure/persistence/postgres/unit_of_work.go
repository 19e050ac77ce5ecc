package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/pantry/pkg/database"
	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/product/domain/repositories"
	"github.com/ghuser/pantry/services/product/infrastructure/persistence/postgres/db"
)

const (
	pgUniqueViolation  = "23505"
	productsPrimaryKey = "products_pkey"
	measuresPrimaryKey = "measures_pkey"
)

// UnitOfWork implements repositories.UnitOfWork with one SQL transaction per Do.
// Products and measures written in one Do commit together with their outbox rows.
type UnitOfWork struct {
	db  *database.Database
	bus *events.EventBus
}

// NewUnitOfWork returns a UnitOfWork over the given pool. A nil bus skips event publishing.
func NewUnitOfWork(database *database.Database, bus *events.EventBus) *UnitOfWork {
	return &UnitOfWork{db: database, bus: bus}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repositories.Repositories) error) error {
	return u.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, txRepositories(tx, u.bus))
	})
}

// NewRepositories returns repositories that run each write in its own transaction.
func NewRepositories(database *database.Database, bus *events.EventBus) repositories.Repositories {
	return repositories.Repositories{
		Products: NewProductRepository(database, bus),
		Measures: NewMeasureRepository(database, bus),
	}
}

func txRepositories(tx *sql.Tx, bus *events.EventBus) repositories.Repositories {
	b := txBinding{tx: tx, q: db.New(tx), bus: bus}
	return repositories.Repositories{
		Products: &txProducts{b},
		Measures: &txMeasures{b},
	}
}

// txBinding is what a repository needs to work inside one transaction.
type txBinding struct {
	tx  *sql.Tx
	q   *db.Queries
	bus *events.EventBus
}

func (b txBinding) publish(ctx context.Context, evts []kernel.Event) error {
	if b.bus == nil || len(evts) == 0 {
		return nil
	}
	if err := b.bus.PublishDomainEvents(ctx, b.tx, evts); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

// uniqueViolation reports whether err is a unique violation and on which constraint.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
