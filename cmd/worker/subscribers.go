package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/logger"
	itemEvents "github.com/ghuser/pantry/services/item/domain/events"
	productEvents "github.com/ghuser/pantry/services/product/domain/events"
)

// entryCache is the slice of cache.CatalogCache the projector writes to.
type entryCache interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// cacheProjector keeps the Redis read models in step with catalog events by
// evicting the entry named by every event. Entries are only ever written by
// the services' read-through path, whose generation check discards rows read
// before an eviction. Topics are consumed by independent subscribers, so an
// archive change may arrive before the matching created event; eviction gives
// the same cache state in either order.
//
// Handlers must be idempotent: EventBus retries up to 3x on failure. Cache
// writes are best-effort, so failures are logged and the message is acked.
type cacheProjector struct {
	items    entryCache
	products entryCache
	measures entryCache
	log      logger.Logger
}

type subscription struct {
	topic   string
	handler events.Handler
}

func (p *cacheProjector) subscriptions() []subscription {
	return []subscription{
		{itemEvents.TopicItemCreated, p.itemCreated},
		{itemEvents.TopicItemArchived, p.itemArchiveChanged},
		{itemEvents.TopicItemUnarchived, p.itemArchiveChanged},
		{productEvents.TopicProductCreated, p.productCreated},
		{productEvents.TopicProductArchived, p.productArchiveChanged},
		{productEvents.TopicProductUnarchived, p.productArchiveChanged},
		{productEvents.TopicMeasureCreated, p.measureCreated},
		{productEvents.TopicMeasureArchived, p.measureArchiveChanged},
		{productEvents.TopicMeasureUnarchived, p.measureArchiveChanged},
	}
}

func (p *cacheProjector) itemCreated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[itemEvents.ItemCreatedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.items, evt.ItemID, msg)
	return nil
}

func (p *cacheProjector) itemArchiveChanged(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[itemEvents.ItemArchiveChangedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.items, evt.ItemID, msg)
	return nil
}

func (p *cacheProjector) productCreated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[productEvents.ProductCreatedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.products, evt.ProductID, msg)
	return nil
}

func (p *cacheProjector) productArchiveChanged(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[productEvents.ProductArchiveChangedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.products, evt.ProductID, msg)
	return nil
}

func (p *cacheProjector) measureCreated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[productEvents.MeasureCreatedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.measures, evt.MeasureID, msg)
	return nil
}

func (p *cacheProjector) measureArchiveChanged(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[productEvents.MeasureArchiveChangedEvent](msg)
	if err != nil {
		return err
	}
	p.evict(ctx, p.measures, evt.MeasureID, msg)
	return nil
}

func (p *cacheProjector) evict(ctx context.Context, c entryCache, id uuid.UUID, msg *message.Message) {
	eventID := msg.Metadata.Get(events.MetaEventID)
	if err := c.Delete(ctx, id); err != nil {
		p.log.WarnContext(ctx, "cache evict failed", "id", id, "event_id", eventID, "error", err)
		return
	}
	p.log.DebugContext(ctx, "cache evicted", "id", id, "event_id", eventID)
}
