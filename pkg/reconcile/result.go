package reconcile

// Result summarizes one reconciliation pass over a dataset.
type Result[T Entity] struct {
	Created   []T // Entities that did not exist before this pass
	Updated   []T // Entities with at least one changed field
	Unchanged int // Records that matched persisted state exactly
}

// ToSave returns the entities that must be written back: everything
// created or updated. Unchanged entities never appear, so an idempotent
// re-ingestion performs zero writes.
func (r *Result[T]) ToSave() []T {
	out := make([]T, 0, len(r.Created)+len(r.Updated))
	out = append(out, r.Created...)
	out = append(out, r.Updated...)
	return out
}

// Changes returns the number of entities created or updated.
func (r *Result[T]) Changes() int {
	return len(r.Created) + len(r.Updated)
}

// Total returns the number of incoming records processed.
func (r *Result[T]) Total() int {
	return r.Changes() + r.Unchanged
}

// merge folds another result into this one.
func (r *Result[T]) merge(other *Result[T]) {
	r.Created = append(r.Created, other.Created...)
	r.Updated = append(r.Updated, other.Updated...)
	r.Unchanged += other.Unchanged
}
