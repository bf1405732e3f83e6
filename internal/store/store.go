// Package store provides the persisted entity store the reconciler
// writes through: a synchronous key-value-by-natural-key store per
// entity type, with an in-memory implementation for tests and dry runs
// and a SQLite-backed implementation for real runs.
package store

import (
	"context"

	"github.com/refcanon/refcanon/pkg/registry"
)

// Store is the persisted-store collaborator surface for one entity
// type. Entities are addressed by their natural key.
type Store[E any] interface {
	// FindAll returns every persisted entity.
	FindAll(ctx context.Context) ([]*E, error)

	// FindByCodeValue returns the entity with the given natural key,
	// or a not-found error.
	FindByCodeValue(ctx context.Context, codeValue string) (*E, error)

	// Save persists one entity, creating or overwriting.
	Save(ctx context.Context, entity *E) error

	// SaveAll persists a batch of entities atomically.
	SaveAll(ctx context.Context, entities []*E) error
}

// Snapshot builds a read-only code value lookup over every persisted
// entity of one kind. Taken once at the start of an ingestion run.
func Snapshot[E any](ctx context.Context, s Store[E], kind registry.Kind, meta func(*E) (codeValue, id string)) (*registry.Snapshot, error) {
	entities, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := registry.NewSnapshot(kind)
	for _, e := range entities {
		codeValue, id := meta(e)
		snap.Put(codeValue, id)
	}
	return snap, nil
}
