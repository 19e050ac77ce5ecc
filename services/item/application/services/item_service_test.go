package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/services/item/domain/events"
	"github.com/ghuser/pantry/services/item/infrastructure/persistence/memory"
)

// fakeCache is an in-process EntryCache. set receives every written warm,
// skipped every warm refused for a stale generation. A non-nil gate holds
// warms until it is closed.
type fakeCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]pkgcache.CachedEntry
	gens    map[uuid.UUID]int64
	deletes []uuid.UUID
	gate    chan struct{}
	set     chan uuid.UUID
	skipped chan uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: map[uuid.UUID]pkgcache.CachedEntry{},
		gens:    map[uuid.UUID]int64{},
		set:     make(chan uuid.UUID, 8),
		skipped: make(chan uuid.UUID, 8),
	}
}

func (c *fakeCache) Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return &e, nil
}

func (c *fakeCache) Generation(ctx context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *fakeCache) SetIfGeneration(ctx context.Context, e *pkgcache.CachedEntry, gen int64) (bool, error) {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	written := c.gens[e.ID] == gen
	if written {
		c.entries[e.ID] = *e
	}
	c.mu.Unlock()
	if written {
		c.set <- e.ID
	} else {
		c.skipped <- e.ID
	}
	return written, nil
}

func (c *fakeCache) Delete(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.gens[id]++
	c.deletes = append(c.deletes, id)
	return nil
}

func newTestService(t *testing.T, opts ...ItemServiceOption) (*ItemService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
	return NewItemService(store.UnitOfWork(), store.Repository(), log, opts...), store
}

func TestItemService_DuplicateScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Create(ctx, "Apple", "weight"); err != nil {
		t.Fatalf("create Apple/weight: %v", err)
	}

	_, err := svc.Create(ctx, "apple", "Weight")
	if !errors.Is(err, kernel.ErrUniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if kernel.CodeOf(err) != "item.unique.violation" {
		t.Fatalf("unexpected code %q", kernel.CodeOf(err))
	}

	if _, err := svc.Create(ctx, "Apple", "LIQUID"); err != nil {
		t.Fatalf("create Apple/liquid: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestItemService_CreateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tests := []struct {
		name        string
		itemName    string
		measureType string
		want        error
	}{
		{"unknown measure type", "Apple", "kg", kernel.ErrUnknownMeasureType},
		{"empty measure type", "Apple", "", kernel.ErrUnknownMeasureType},
		{"blank name", "  ", "weight", kernel.ErrValueInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.itemName, tt.measureType)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if n := len(store.Published()); n != 0 {
		t.Fatalf("rejected commands must not publish, got %d events", n)
	}
}

func TestItemService_ArchiveLifecycle(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc, store := newTestService(t, WithCache(cache))

	item, err := svc.Create(ctx, "Milk", "liquid")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Unarchive(ctx, item.ID()); !errors.Is(err, kernel.ErrAlreadyUnarchived) {
		t.Fatalf("fresh unarchive: expected already unarchived, got %v", err)
	}

	archived, err := svc.Archive(ctx, item.ID())
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if !archived.IsArchive() {
		t.Fatal("expected archived item")
	}

	_, err = svc.Archive(ctx, item.ID())
	if !errors.Is(err, kernel.ErrAlreadyArchived) || kernel.CodeOf(err) != "item.is.already.archived" {
		t.Fatalf("second archive: got %v", err)
	}

	if _, err := svc.Unarchive(ctx, item.ID()); err != nil {
		t.Fatalf("Unarchive: %v", err)
	}

	var topics []string
	for _, e := range store.Published() {
		topics = append(topics, e.Topic())
	}
	want := []string{events.TopicItemCreated, events.TopicItemArchived, events.TopicItemUnarchived}
	if len(topics) != len(want) {
		t.Fatalf("topics: got %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("topics: got %v, want %v", topics, want)
		}
	}

	if len(cache.deletes) != 2 {
		t.Fatalf("each successful transition invalidates the cache, got %d deletes", len(cache.deletes))
	}
}

func TestItemService_ArchiveUnknownOrNil(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Archive(ctx, uuid.New())
	if !errors.Is(err, kernel.ErrNotFound) || kernel.CodeOf(err) != "item.is.not.exists" {
		t.Fatalf("unknown id: got %v", err)
	}
	if _, err := svc.Archive(ctx, uuid.Nil); !errors.Is(err, kernel.ErrValueRequired) {
		t.Fatalf("nil id: got %v", err)
	}
	if _, err := svc.Get(ctx, uuid.Nil); !errors.Is(err, kernel.ErrValueRequired) {
		t.Fatalf("nil id get: got %v", err)
	}
}

func TestItemService_GetReadThrough(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc, _ := newTestService(t, WithCache(cache))

	item, err := svc.Create(ctx, "Bread", "weight")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, item.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != item.Name() {
		t.Fatalf("got %q, want %q", got.Name(), item.Name())
	}

	select {
	case id := <-cache.set:
		if id != item.ID() {
			t.Fatalf("warmed wrong id %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("cache was not warmed after a miss")
	}

	// a cached entry is served without touching the repository
	cache.mu.Lock()
	e := cache.entries[item.ID()]
	e.Name = "Bread (cached)"
	cache.entries[item.ID()] = e
	cache.mu.Unlock()

	got, err = svc.Get(ctx, item.ID())
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if got.Name() != "Bread (cached)" {
		t.Fatalf("expected cached entry, got %q", got.Name())
	}
}

func TestItemService_ArchiveDuringPendingWarm(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	cache.gate = make(chan struct{})
	svc, _ := newTestService(t, WithCache(cache))

	item, err := svc.Create(ctx, "Rice", "weight")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// the miss loads the active row and leaves its warm waiting on the gate
	if _, err := svc.Get(ctx, item.ID()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := svc.Archive(ctx, item.ID()); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	close(cache.gate)

	select {
	case id := <-cache.skipped:
		if id != item.ID() {
			t.Fatalf("skipped wrong id %s", id)
		}
	case <-cache.set:
		t.Fatal("pre-archive snapshot was written after the archive invalidated it")
	case <-time.After(time.Second):
		t.Fatal("pending warm never finished")
	}

	got, err := svc.Get(ctx, item.ID())
	if err != nil {
		t.Fatalf("Get after archive: %v", err)
	}
	if !got.IsArchive() {
		t.Fatal("Get after archive returned the item as active")
	}
}

func TestItemService_ListEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}
