// Package reconcile implements the create-or-update decision applied to
// every incoming record. Persisted entities are fetched once into an
// in-memory natural key map at the start of a dataset's ingestion, so
// total work is bounded by O(existing + incoming) rather than
// O(existing x incoming).
package reconcile

import (
	"context"
	"sync"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/refcanon/refcanon/pkg/errors"
)

// DefaultChunkSize is the record group size used when chunking very
// large datasets for concurrent upserts.
const DefaultChunkSize = 10000

// Entity is the contract reconciled records satisfy. All registry
// entity pointers implement it through their embedded base.
type Entity interface {
	// Key returns the natural key of the record.
	Key() string

	// Stamp assigns identity to a freshly created entity.
	Stamp(id string, now utc.Time)

	// Touch advances the modified timestamp after a detected change.
	Touch(now utc.Time)
}

// Upserter reconciles incoming records of one entity type against the
// persisted state captured when the upserter was built.
type Upserter[T Entity] struct {
	dataset  string
	existing map[string]T
	apply    func(existing, incoming T) bool
	newID    func() string
	now      func() utc.Time
}

// Option configures an Upserter.
type Option[T Entity] func(*Upserter[T])

// WithIDFunc overrides the id generator, mainly for tests.
func WithIDFunc[T Entity](fn func() string) Option[T] {
	return func(u *Upserter[T]) {
		u.newID = fn
	}
}

// WithClock overrides the timestamp source, mainly for tests.
func WithClock[T Entity](fn func() utc.Time) Option[T] {
	return func(u *Upserter[T]) {
		u.now = fn
	}
}

// NewUpserter builds an upserter over the persisted entities of one
// dataset. apply overwrites the observable fields of an existing entity
// from an incoming one and reports whether anything differed.
func NewUpserter[T Entity](dataset string, existing []T, apply func(existing, incoming T) bool, opts ...Option[T]) *Upserter[T] {
	u := &Upserter[T]{
		dataset:  dataset,
		existing: make(map[string]T, len(existing)),
		apply:    apply,
		newID:    uuid.NewString,
		now:      utc.Now,
	}
	for _, e := range existing {
		u.existing[e.Key()] = e
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Reconcile applies the create-or-update decision to every incoming
// record. A duplicate natural key within the batch is fatal for the
// whole batch. The modified timestamp advances only when at least one
// observable field actually changed; an unchanged record is a strict
// no-op and is excluded from the save set.
func (u *Upserter[T]) Reconcile(incoming []T) (*Result[T], error) {
	if err := u.checkDuplicates(incoming); err != nil {
		return nil, err
	}

	result := &Result[T]{}
	u.reconcileChunk(incoming, result)
	return result, nil
}

// ReconcileChunked partitions the incoming records into fixed-size
// groups and upserts the groups concurrently. Chunks are disjoint by
// natural key, so they never contend on the same entity; the existing
// map is only read.
func (u *Upserter[T]) ReconcileChunked(ctx context.Context, incoming []T, chunkSize int) (*Result[T], error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if err := u.checkDuplicates(incoming); err != nil {
		return nil, err
	}

	result := &Result[T]{}
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for start := 0; start < len(incoming); start += chunkSize {
		end := start + chunkSize
		if end > len(incoming) {
			end = len(incoming)
		}
		chunk := incoming[start:end]

		g.Go(func() error {
			local := &Result[T]{}
			u.reconcileChunk(chunk, local)

			mu.Lock()
			result.merge(local)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// reconcileChunk runs the per-record decision over one group of
// records, accumulating into result.
func (u *Upserter[T]) reconcileChunk(incoming []T, result *Result[T]) {
	for _, record := range incoming {
		existing, ok := u.existing[record.Key()]
		if !ok {
			record.Stamp(u.newID(), u.now())
			result.Created = append(result.Created, record)
			continue
		}

		if u.apply(existing, record) {
			existing.Touch(u.now())
			result.Updated = append(result.Updated, existing)
		} else {
			result.Unchanged++
		}
	}
}

// checkDuplicates rejects a batch carrying the same natural key twice.
func (u *Upserter[T]) checkDuplicates(incoming []T) error {
	seen := make(map[string]struct{}, len(incoming))
	for _, record := range incoming {
		key := record.Key()
		if _, dup := seen[key]; dup {
			return &errors.DuplicateKeyError{Dataset: u.dataset, CodeValue: key}
		}
		seen[key] = struct{}{}
	}
	return nil
}
