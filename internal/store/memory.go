package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Memory is an in-memory Store implementation. Safe for concurrent
// use. Entities cross the store boundary as detached copies, matching
// the SQLite store: a caller mutating a fetched entity never touches
// persisted state until it is saved back.
type Memory[E any] struct {
	mu    sync.RWMutex
	key   func(*E) string
	items map[string]*E
	kind  string
}

// NewMemory creates an empty in-memory store for one entity kind.
func NewMemory[E any](kind string, key func(*E) string) *Memory[E] {
	return &Memory[E]{
		key:   key,
		items: make(map[string]*E),
		kind:  kind,
	}
}

// FindAll returns a detached copy of every stored entity.
func (m *Memory[E]) FindAll(_ context.Context) ([]*E, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*E, 0, len(m.items))
	for _, item := range m.items {
		c, err := m.detach(item)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FindByCodeValue returns a detached copy of the entity with the given
// natural key.
func (m *Memory[E]) FindByCodeValue(_ context.Context, codeValue string) (*E, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[codeValue]
	if !ok {
		return nil, errors.NewNotFoundError(m.kind, codeValue)
	}
	return m.detach(item)
}

// Save persists one entity.
func (m *Memory[E]) Save(_ context.Context, entity *E) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(entity)
}

// SaveAll persists a batch of entities.
func (m *Memory[E]) SaveAll(_ context.Context, entities []*E) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entity := range entities {
		if err := m.saveLocked(entity); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory[E]) saveLocked(entity *E) error {
	c, err := m.detach(entity)
	if err != nil {
		return err
	}
	m.items[m.key(entity)] = c
	return nil
}

// detach deep-copies an entity through its JSON form, the same
// representation the SQLite store persists.
func (m *Memory[E]) detach(entity *E) (*E, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.WrapParse("json", m.kind, err)
	}
	out := new(E)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, errors.WrapParse("json", m.kind, err)
	}
	return out, nil
}

// Len returns the number of stored entities.
func (m *Memory[E]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
