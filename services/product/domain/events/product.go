package events

import (
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
)

// Watermill topics for the product and measure lifecycles.
const (
	TopicProductCreated    = "product.created"
	TopicProductArchived   = "product.archived"
	TopicProductUnarchived = "product.unarchived"

	TopicMeasureCreated    = "measure.created"
	TopicMeasureArchived   = "measure.archived"
	TopicMeasureUnarchived = "measure.unarchived"
)

// Version is the current schema version of product context events.
const Version = 1

// ProductCreatedEvent is published after a new Product is persisted.
type ProductCreatedEvent struct {
	kernel.EventMeta
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	MeasureTypeID int       `json:"measure_type_id"`
	MeasureType   string    `json:"measure_type"`
}

func (e *ProductCreatedEvent) Topic() string { return TopicProductCreated }

// ProductArchiveChangedEvent is published when a Product is archived or unarchived.
type ProductArchiveChangedEvent struct {
	kernel.EventMeta
	ProductID uuid.UUID `json:"product_id"`
	IsArchive bool      `json:"is_archive"`
}

func (e *ProductArchiveChangedEvent) Topic() string {
	if e.IsArchive {
		return TopicProductArchived
	}
	return TopicProductUnarchived
}

// MeasureCreatedEvent is published after a new Measure is persisted.
type MeasureCreatedEvent struct {
	kernel.EventMeta
	MeasureID     uuid.UUID `json:"measure_id"`
	FullName      string    `json:"full_name"`
	ShortName     string    `json:"short_name"`
	MeasureTypeID int       `json:"measure_type_id"`
	MeasureType   string    `json:"measure_type"`
}

func (e *MeasureCreatedEvent) Topic() string { return TopicMeasureCreated }

// MeasureArchiveChangedEvent is published when a Measure is archived or unarchived.
type MeasureArchiveChangedEvent struct {
	kernel.EventMeta
	MeasureID uuid.UUID `json:"measure_id"`
	IsArchive bool      `json:"is_archive"`
}

func (e *MeasureArchiveChangedEvent) Topic() string {
	if e.IsArchive {
		return TopicMeasureArchived
	}
	return TopicMeasureUnarchived
}
