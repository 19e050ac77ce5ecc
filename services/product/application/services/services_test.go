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
	"github.com/ghuser/pantry/services/product/domain/events"
	"github.com/ghuser/pantry/services/product/infrastructure/persistence/memory"
)

func newTestServices(t *testing.T) (*ProductService, *MeasureService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
	return NewProductService(store.UnitOfWork(), repos.Products, log),
		NewMeasureService(store.UnitOfWork(), repos.Measures, log),
		store
}

// gatedCache is an in-process EntryCache whose warms wait for gate.
// Each finished warm reports whether it was written on done.
type gatedCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]pkgcache.CachedEntry
	gens    map[uuid.UUID]int64
	gate    chan struct{}
	done    chan bool
}

func newGatedCache() *gatedCache {
	return &gatedCache{
		entries: map[uuid.UUID]pkgcache.CachedEntry{},
		gens:    map[uuid.UUID]int64{},
		gate:    make(chan struct{}),
		done:    make(chan bool, 8),
	}
}

func (c *gatedCache) Get(_ context.Context, id uuid.UUID) (*pkgcache.CachedEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return &e, nil
}

func (c *gatedCache) Generation(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *gatedCache) SetIfGeneration(_ context.Context, e *pkgcache.CachedEntry, gen int64) (bool, error) {
	<-c.gate
	c.mu.Lock()
	written := c.gens[e.ID] == gen
	if written {
		c.entries[e.ID] = *e
	}
	c.mu.Unlock()
	c.done <- written
	return written, nil
}

func (c *gatedCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.gens[id]++
	return nil
}

func TestProductService_ArchiveDuringPendingWarm(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := newGatedCache()
	log := logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
	products := NewProductService(store.UnitOfWork(), store.Repositories().Products, log, WithCache(cache))

	p, err := products.Create(ctx, "Oats", kernel.Weight.ID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := products.Get(ctx, p.ID()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := products.Archive(ctx, p.ID()); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	close(cache.gate)

	select {
	case written := <-cache.done:
		if written {
			t.Fatal("pre-archive snapshot was written after the archive invalidated it")
		}
	case <-time.After(time.Second):
		t.Fatal("pending warm never finished")
	}

	got, err := products.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("Get after archive: %v", err)
	}
	if !got.IsArchive() {
		t.Fatal("Get after archive returned the product as active")
	}
}

func TestProductService_DuplicateScenario(t *testing.T) {
	ctx := context.Background()
	products, _, _ := newTestServices(t)

	if _, err := products.Create(ctx, "Apple", kernel.Weight.ID()); err != nil {
		t.Fatalf("create Apple/weight: %v", err)
	}
	_, err := products.Create(ctx, "apple", kernel.Weight.ID())
	if !errors.Is(err, kernel.ErrUniqueViolation) || kernel.CodeOf(err) != "product.unique.violation" {
		t.Fatalf("expected product.unique.violation, got %v", err)
	}
	if _, err := products.Create(ctx, "Apple", kernel.Liquid.ID()); err != nil {
		t.Fatalf("create Apple/liquid: %v", err)
	}

	all, err := products.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d products, %v", len(all), err)
	}
}

func TestProductService_UnknownMeasureType(t *testing.T) {
	products, _, _ := newTestServices(t)
	for _, id := range []int{0, -1, 3} {
		_, err := products.Create(context.Background(), "Apple", id)
		if !errors.Is(err, kernel.ErrUnknownMeasureType) {
			t.Fatalf("measure type %d: expected unknown measure type, got %v", id, err)
		}
	}
}

func TestProductService_ArchiveLifecycle(t *testing.T) {
	ctx := context.Background()
	products, _, store := newTestServices(t)

	p, err := products.Create(ctx, "Sugar", kernel.Weight.ID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := products.Archive(ctx, p.ID()); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := products.Archive(ctx, p.ID()); !errors.Is(err, kernel.ErrAlreadyArchived) {
		t.Fatalf("second archive: got %v", err)
	}
	got, err := products.Unarchive(ctx, p.ID())
	if err != nil || got.IsArchive() {
		t.Fatalf("Unarchive: %v, archived=%v", err, got != nil && got.IsArchive())
	}

	var topics []string
	for _, e := range store.Published() {
		topics = append(topics, e.Topic())
	}
	want := []string{events.TopicProductCreated, events.TopicProductArchived, events.TopicProductUnarchived}
	if len(topics) != len(want) {
		t.Fatalf("topics: got %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("topics: got %v, want %v", topics, want)
		}
	}

	if _, err := products.Get(ctx, uuid.New()); kernel.CodeOf(err) != "product.is.not.exists" {
		t.Fatalf("expected product.is.not.exists, got %v", err)
	}
}

func TestMeasureService_CreateAndArchive(t *testing.T) {
	ctx := context.Background()
	_, measures, _ := newTestServices(t)

	m, err := measures.Create(ctx, "Kilogram", "kg", kernel.Weight.ID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := measures.Create(ctx, "kilogram", "KG", kernel.Weight.ID()); kernel.CodeOf(err) != "measure.unique.violation" {
		t.Fatalf("expected measure.unique.violation, got %v", err)
	}
	if _, err := measures.Create(ctx, "Kilolitre", "kilolitre", kernel.Liquid.ID()); kernel.CodeOf(err) != "value.is.too.long" {
		t.Fatalf("expected value.is.too.long, got %v", err)
	}

	if _, err := measures.Unarchive(ctx, m.ID()); kernel.CodeOf(err) != "measure.is.already.unarchived" {
		t.Fatalf("expected measure.is.already.unarchived, got %v", err)
	}
	archived, err := measures.Archive(ctx, m.ID())
	if err != nil || !archived.IsArchive() {
		t.Fatalf("Archive: %v", err)
	}

	got, err := measures.Get(ctx, m.ID())
	if err != nil || !got.IsArchive() || got.ShortName() != "kg" {
		t.Fatalf("Get: %+v, %v", got, err)
	}
}

func TestMeasureService_ListEmpty(t *testing.T) {
	_, measures, _ := newTestServices(t)
	all, err := measures.List(context.Background())
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("expected empty slice, got %v, %v", all, err)
	}
}
