package events

import (
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
)

// Watermill topics for the item lifecycle.
const (
	TopicItemCreated    = "item.created"
	TopicItemArchived   = "item.archived"
	TopicItemUnarchived = "item.unarchived"
)

// Version is the current schema version of item events; increment on breaking changes.
const Version = 1

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated, h).
type ItemCreatedEvent struct {
	kernel.EventMeta
	ItemID      uuid.UUID `json:"item_id"`
	Name        string    `json:"name"`
	MeasureType string    `json:"measure_type"`
}

// Topic implements kernel.Event.
func (e *ItemCreatedEvent) Topic() string { return TopicItemCreated }

// ItemArchiveChangedEvent is published when an Item is archived or unarchived.
// IsArchive is the state after the change and selects the topic.
type ItemArchiveChangedEvent struct {
	kernel.EventMeta
	ItemID    uuid.UUID `json:"item_id"`
	IsArchive bool      `json:"is_archive"`
}

// Topic implements kernel.Event.
func (e *ItemArchiveChangedEvent) Topic() string {
	if e.IsArchive {
		return TopicItemArchived
	}
	return TopicItemUnarchived
}
