// Package memory is an in-process ItemRepository used by tests and local runs
// without PostgreSQL. It keeps the same duplicate and not-found semantics as
// the postgres adapter.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	itemdomain "github.com/ghuser/pantry/services/item/domain"
	"github.com/ghuser/pantry/services/item/domain/models"
	"github.com/ghuser/pantry/services/item/domain/repositories"
)

type row struct {
	id          uuid.UUID
	name        kernel.Name
	measureType kernel.MeasureType
	isArchive   bool
	createdAt   time.Time
}

type state struct {
	rows  map[uuid.UUID]row
	order []uuid.UUID
}

func (s state) clone() state {
	rows := make(map[uuid.UUID]row, len(s.rows))
	for k, v := range s.rows {
		rows[k] = v
	}
	return state{rows: rows, order: slices.Clone(s.order)}
}

// Store holds items and the events published with them.
type Store struct {
	mu        sync.RWMutex
	state     state
	published []kernel.Event
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{state: state{rows: map[uuid.UUID]row{}}}
}

// Repository returns a repository whose writes apply immediately.
func (s *Store) Repository() repositories.ItemRepository {
	return &ItemRepository{store: s}
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

// ItemRepository implements repositories.ItemRepository over a Store.
type ItemRepository struct {
	store *Store
}

func (r *ItemRepository) Add(ctx context.Context, item *models.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v := view{state: &r.store.state, events: &r.store.published}
	return v.add(item)
}

func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v := view{state: &r.store.state, events: &r.store.published}
	return v.update(item)
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v := view{state: &r.store.state}
	return v.getByID(id)
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v := view{state: &r.store.state}
	return v.getAll(), nil
}

func (r *ItemRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v := view{state: &r.store.state}
	return v.checkDuplicate(name, mt), nil
}

// UnitOfWork stages changes on a copy of the store and swaps it in on success.
// The store is write-locked for the whole of fn.
type UnitOfWork struct {
	store *Store
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repo repositories.ItemRepository) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	staged := u.store.state.clone()
	var events []kernel.Event
	if err := fn(ctx, &txRepository{view: view{state: &staged, events: &events}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.state = staged
	u.store.published = append(u.store.published, events...)
	return nil
}

// txRepository is the repository handed to a UnitOfWork callback.
// It must not be used after Do returns.
type txRepository struct {
	view view
}

func (r *txRepository) Add(ctx context.Context, item *models.Item) error {
	return r.view.add(item)
}

func (r *txRepository) Update(ctx context.Context, item *models.Item) error {
	return r.view.update(item)
}

func (r *txRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return r.view.getByID(id)
}

func (r *txRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	return r.view.getAll(), nil
}

func (r *txRepository) CheckDuplicate(ctx context.Context, name kernel.Name, mt kernel.MeasureType) (bool, error) {
	return r.view.checkDuplicate(name, mt), nil
}

// view implements the repository operations on one state. Callers hold the lock.
type view struct {
	state  *state
	events *[]kernel.Event
}

func (v view) add(item *models.Item) error {
	if _, ok := v.state.rows[item.ID()]; ok {
		return itemdomain.ItemIDAlreadyExists(item.ID())
	}
	if v.checkDuplicate(item.Name(), item.MeasureType()) {
		return kernel.UniqueViolation(itemdomain.ItemKind, item.Name(), item.MeasureType())
	}
	v.state.rows[item.ID()] = toRow(item)
	v.state.order = append(v.state.order, item.ID())
	v.publish(item)
	return nil
}

func (v view) update(item *models.Item) error {
	existing, ok := v.state.rows[item.ID()]
	if !ok {
		return kernel.NotFound(item.ID(), itemdomain.ItemKind)
	}
	if existing.isArchive == item.IsArchive() {
		return kernel.AlreadyInState(item.ID(), itemdomain.ItemKind, item.IsArchive())
	}
	existing.isArchive = item.IsArchive()
	v.state.rows[item.ID()] = existing
	v.publish(item)
	return nil
}

func (v view) getByID(id uuid.UUID) (*models.Item, error) {
	r, ok := v.state.rows[id]
	if !ok {
		return nil, kernel.NotFound(id, itemdomain.ItemKind)
	}
	return r.toItem(), nil
}

func (v view) getAll() []*models.Item {
	items := make([]*models.Item, 0, len(v.state.order))
	for _, id := range v.state.order {
		items = append(items, v.state.rows[id].toItem())
	}
	return items
}

func (v view) checkDuplicate(name kernel.Name, mt kernel.MeasureType) bool {
	for _, r := range v.state.rows {
		if strings.EqualFold(r.name.String(), name.String()) &&
			strings.EqualFold(r.measureType.Name(), mt.Name()) {
			return true
		}
	}
	return false
}

// publish moves the aggregate's pending events to the sink. Without a sink
// (plain reads) there is nothing to publish.
func (v view) publish(item *models.Item) {
	evts := item.PullEvents()
	if v.events != nil {
		*v.events = append(*v.events, evts...)
	}
}

func toRow(item *models.Item) row {
	return row{
		id:          item.ID(),
		name:        item.Name(),
		measureType: item.MeasureType(),
		isArchive:   item.IsArchive(),
		createdAt:   item.CreatedAt(),
	}
}

func (r row) toItem() *models.Item {
	return models.RestoreItem(r.id, r.name, r.measureType, r.isArchive, r.createdAt)
}
