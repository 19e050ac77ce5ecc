package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	productdomain "github.com/ghuser/pantry/services/product/domain"
	"github.com/ghuser/pantry/services/product/domain/events"
)

// Product is a catalog product measured by weight or volume.
// Name and measure type are write-once; only the archive flag changes.
type Product struct {
	kernel.EventRecorder

	id          uuid.UUID
	name        kernel.Name
	measureType kernel.MeasureType
	archive     kernel.ArchiveState
	createdAt   time.Time
}

// NewProduct validates name and mt and records ProductCreatedEvent.
func NewProduct(name string, mt kernel.MeasureType) (*Product, error) {
	n, err := kernel.NewName(name)
	if err != nil {
		return nil, err
	}
	if mt.IsZero() {
		return nil, kernel.ValueRequired("measureType")
	}

	p := &Product{
		id:          uuid.New(),
		name:        n,
		measureType: mt,
		createdAt:   time.Now().UTC(),
	}
	p.Record(&events.ProductCreatedEvent{
		EventMeta:     kernel.NewEventMeta(events.Version),
		ProductID:     p.id,
		Name:          n.String(),
		MeasureTypeID: mt.ID(),
		MeasureType:   mt.Name(),
	})
	return p, nil
}

// RestoreProduct rebuilds a persisted Product. Only repositories should call it.
func RestoreProduct(id uuid.UUID, name kernel.Name, mt kernel.MeasureType, archived bool, createdAt time.Time) *Product {
	return &Product{
		id:          id,
		name:        name,
		measureType: mt,
		archive:     kernel.RestoreArchiveState(archived),
		createdAt:   createdAt,
	}
}

func (p *Product) ID() uuid.UUID                   { return p.id }
func (p *Product) Name() kernel.Name               { return p.name }
func (p *Product) MeasureType() kernel.MeasureType { return p.measureType }
func (p *Product) IsArchive() bool                 { return p.archive.IsArchived() }
func (p *Product) CreatedAt() time.Time            { return p.createdAt }

// Entry projects the fields duplicate detection looks at.
func (p *Product) Entry() kernel.Entry {
	return kernel.Entry{Name: p.name, MeasureType: p.measureType}
}

// Archive fails with product.is.already.archived when the product is archived.
func (p *Product) Archive() error {
	if err := p.archive.Archive(p.id, productdomain.ProductKind); err != nil {
		return err
	}
	p.recordArchiveChange()
	return nil
}

// Unarchive fails with product.is.already.unarchived when the product is active.
func (p *Product) Unarchive() error {
	if err := p.archive.Unarchive(p.id, productdomain.ProductKind); err != nil {
		return err
	}
	p.recordArchiveChange()
	return nil
}

func (p *Product) recordArchiveChange() {
	p.Record(&events.ProductArchiveChangedEvent{
		EventMeta: kernel.NewEventMeta(events.Version),
		ProductID: p.id,
		IsArchive: p.archive.IsArchived(),
	})
}
