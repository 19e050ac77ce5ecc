package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	itemdomain "github.com/ghuser/pantry/services/item/domain"
	"github.com/ghuser/pantry/services/item/domain/events"
)

// Item is the core aggregate for this bounded context: a named thing measured
// by weight or volume. Name and measure type are fixed at creation; the only
// mutation is the archive lifecycle.
type Item struct {
	kernel.EventRecorder

	id          uuid.UUID
	name        kernel.Name
	measureType kernel.MeasureType
	archive     kernel.ArchiveState
	createdAt   time.Time
}

// NewItem validates name and mt, assigns a fresh id and records ItemCreatedEvent.
func NewItem(name string, mt kernel.MeasureType) (*Item, error) {
	n, err := kernel.NewName(name)
	if err != nil {
		return nil, err
	}
	if mt.IsZero() {
		return nil, kernel.ValueRequired("measureType")
	}

	item := &Item{
		id:          uuid.New(),
		name:        n,
		measureType: mt,
		createdAt:   time.Now().UTC(),
	}
	item.Record(&events.ItemCreatedEvent{
		EventMeta:   kernel.NewEventMeta(events.Version),
		ItemID:      item.id,
		Name:        n.String(),
		MeasureType: mt.Name(),
	})
	return item, nil
}

// RestoreItem rebuilds a persisted Item without validation or events.
// Only repositories should call it.
func RestoreItem(id uuid.UUID, name kernel.Name, mt kernel.MeasureType, archived bool, createdAt time.Time) *Item {
	return &Item{
		id:          id,
		name:        name,
		measureType: mt,
		archive:     kernel.RestoreArchiveState(archived),
		createdAt:   createdAt,
	}
}

func (i *Item) ID() uuid.UUID                   { return i.id }
func (i *Item) Name() kernel.Name               { return i.name }
func (i *Item) MeasureType() kernel.MeasureType { return i.measureType }
func (i *Item) IsArchive() bool                 { return i.archive.IsArchived() }
func (i *Item) CreatedAt() time.Time            { return i.createdAt }

// Entry projects the fields duplicate detection looks at.
func (i *Item) Entry() kernel.Entry {
	return kernel.Entry{Name: i.name, MeasureType: i.measureType}
}

// Archive moves the item out of active use.
// Fails with item.is.already.archived when it is archived already.
func (i *Item) Archive() error {
	if err := i.archive.Archive(i.id, itemdomain.ItemKind); err != nil {
		return err
	}
	i.recordArchiveChange()
	return nil
}

// Unarchive returns the item to active use.
// Fails with item.is.already.unarchived when it is active.
func (i *Item) Unarchive() error {
	if err := i.archive.Unarchive(i.id, itemdomain.ItemKind); err != nil {
		return err
	}
	i.recordArchiveChange()
	return nil
}

func (i *Item) recordArchiveChange() {
	i.Record(&events.ItemArchiveChangedEvent{
		EventMeta: kernel.NewEventMeta(events.Version),
		ItemID:    i.id,
		IsArchive: i.archive.IsArchived(),
	})
}
