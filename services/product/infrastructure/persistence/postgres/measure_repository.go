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

// MeasureRepository implements repositories.MeasureRepository against PostgreSQL.
type MeasureRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewMeasureRepository returns a MeasureRepository. A nil bus skips event publishing.
func NewMeasureRepository(database *database.Database, bus *events.EventBus) *MeasureRepository {
	return &MeasureRepository{db: database, bus: bus}
}

func (r *MeasureRepository) Add(ctx context.Context, m *models.Measure) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return txRepositories(tx, r.bus).Measures.Add(ctx, m)
	})
}

func (r *MeasureRepository) Update(ctx context.Context, m *models.Measure) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return txRepositories(tx, r.bus).Measures.Update(ctx, m)
	})
}

func (r *MeasureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Measure, error) {
	return getMeasure(ctx, db.New(r.db.DB()).GetMeasureByID, id)
}

func (r *MeasureRepository) GetAll(ctx context.Context) ([]*models.Measure, error) {
	return listMeasures(ctx, db.New(r.db.DB()))
}

func (r *MeasureRepository) CheckDuplicate(ctx context.Context, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error) {
	return measureDuplicate(ctx, db.New(r.db.DB()), fullName, mt)
}

type txMeasures struct {
	txBinding
}

func (r *txMeasures) Add(ctx context.Context, m *models.Measure) error {
	if err := r.q.InsertMeasure(ctx, db.InsertMeasureParams{
		ID:            m.ID(),
		FullName:      m.FullName().String(),
		ShortName:     m.ShortName().String(),
		MeasureTypeID: int32(m.MeasureType().ID()),
		IsArchive:     m.IsArchive(),
		CreatedAt:     m.CreatedAt(),
	}); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == measuresPrimaryKey {
				return kernel.IDAlreadyExists(m.ID(), productdomain.MeasureKind)
			}
			return kernel.UniqueViolation(productdomain.MeasureKind, kernel.Name(m.FullName()), m.MeasureType())
		}
		return fmt.Errorf("insert measure: %w", err)
	}
	return r.publish(ctx, m.PullEvents())
}

func (r *txMeasures) Update(ctx context.Context, m *models.Measure) error {
	n, err := r.q.UpdateMeasureArchive(ctx, db.UpdateMeasureArchiveParams{ID: m.ID(), IsArchive: m.IsArchive()})
	if err != nil {
		return fmt.Errorf("update measure: %w", err)
	}
	if n == 0 {
		// the row is missing or another transaction already applied the transition
		if _, err := getMeasure(ctx, r.q.GetMeasureByID, m.ID()); err != nil {
			return err
		}
		return kernel.AlreadyInState(m.ID(), productdomain.MeasureKind, m.IsArchive())
	}
	return r.publish(ctx, m.PullEvents())
}

// GetByID locks the row until the transaction ends.
func (r *txMeasures) GetByID(ctx context.Context, id uuid.UUID) (*models.Measure, error) {
	return getMeasure(ctx, r.q.GetMeasureByIDForUpdate, id)
}

func (r *txMeasures) GetAll(ctx context.Context) ([]*models.Measure, error) {
	return listMeasures(ctx, r.q)
}

func (r *txMeasures) CheckDuplicate(ctx context.Context, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error) {
	return measureDuplicate(ctx, r.q, fullName, mt)
}

func getMeasure(ctx context.Context, fetch func(context.Context, uuid.UUID) (db.ProductMeasure, error), id uuid.UUID) (*models.Measure, error) {
	row, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kernel.NotFound(id, productdomain.MeasureKind)
		}
		return nil, fmt.Errorf("query measure: %w", err)
	}
	return rowToMeasure(row)
}

func listMeasures(ctx context.Context, q *db.Queries) ([]*models.Measure, error) {
	rows, err := q.ListMeasures(ctx)
	if err != nil {
		return nil, fmt.Errorf("query measures: %w", err)
	}
	out := make([]*models.Measure, 0, len(rows))
	for _, row := range rows {
		m, err := rowToMeasure(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func measureDuplicate(ctx context.Context, q *db.Queries, fullName models.MeasureFullName, mt kernel.MeasureType) (bool, error) {
	exists, err := q.MeasureDuplicateExists(ctx, db.MeasureDuplicateExistsParams{
		Lower:         fullName.String(),
		MeasureTypeID: int32(mt.ID()),
	})
	if err != nil {
		return false, fmt.Errorf("check measure duplicate: %w", err)
	}
	return exists, nil
}

func rowToMeasure(row db.ProductMeasure) (*models.Measure, error) {
	mt, err := kernel.MeasureTypeFromID(int(row.MeasureTypeID))
	if err != nil {
		return nil, fmt.Errorf("measure %s: measure type %d: %w", row.ID, row.MeasureTypeID, err)
	}
	return models.RestoreMeasure(row.ID, models.MeasureFullName(row.FullName),
		models.MeasureShortName(row.ShortName), mt, row.IsArchive, row.CreatedAt), nil
}
