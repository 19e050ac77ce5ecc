// Package memory keeps products and measures in process, for tests and local
// runs without PostgreSQL. Duplicate and not-found semantics match the
// postgres adapter.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/product/domain/repositories"
)

// table is an insertion-ordered map of rows.
type table[R any] struct {
	rows  map[uuid.UUID]R
	order []uuid.UUID
}

func newTable[R any]() table[R] {
	return table[R]{rows: map[uuid.UUID]R{}}
}

func (t table[R]) clone() table[R] {
	rows := make(map[uuid.UUID]R, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	return table[R]{rows: rows, order: slices.Clone(t.order)}
}

func (t *table[R]) insert(id uuid.UUID, r R) {
	t.rows[id] = r
	t.order = append(t.order, id)
}

func (t table[R]) all() []R {
	out := make([]R, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

type state struct {
	products table[productRow]
	measures table[measureRow]
}

func (s state) clone() state {
	return state{products: s.products.clone(), measures: s.measures.clone()}
}

// view is one state plus the sink for events published against it.
// Callers hold the store lock.
type view struct {
	state  *state
	events *[]kernel.Event
}

func (v view) publish(evts []kernel.Event) {
	*v.events = append(*v.events, evts...)
}

// Store holds products, measures and the events committed with them.
type Store struct {
	mu        sync.RWMutex
	state     state
	published []kernel.Event
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{state: state{products: newTable[productRow](), measures: newTable[measureRow]()}}
}

// Repositories returns repositories whose writes apply immediately.
func (s *Store) Repositories() repositories.Repositories {
	return repositories.Repositories{
		Products: &lockedProducts{store: s},
		Measures: &lockedMeasures{store: s},
	}
}

// UnitOfWork returns a UnitOfWork over the store.
func (s *Store) UnitOfWork() repositories.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Published returns a copy of every event committed so far.
func (s *Store) Published() []kernel.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.published)
}

func (s *Store) view() view {
	return view{state: &s.state, events: &s.published}
}

// UnitOfWork stages changes on a copy of the store and swaps it in on success.
type UnitOfWork struct {
	store *Store
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repositories.Repositories) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	staged := u.store.state.clone()
	var events []kernel.Event
	v := view{state: &staged, events: &events}
	repos := repositories.Repositories{
		Products: productRepository{v: v},
		Measures: measureRepository{v: v},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.state = staged
	u.store.published = append(u.store.published, events...)
	return nil
}
