package normalize

import (
	"github.com/refcanon/refcanon/pkg/logging"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Resolver resolves foreign codes to previously ingested entities via
// per-kind snapshots. Snapshots are registered once before the run
// starts and are read-only from then on.
type Resolver struct {
	snapshots map[registry.Kind]*registry.Snapshot
}

// NewResolver creates a resolver over the given snapshots.
func NewResolver(snapshots ...*registry.Snapshot) *Resolver {
	r := &Resolver{snapshots: make(map[registry.Kind]*registry.Snapshot, len(snapshots))}
	for _, s := range snapshots {
		r.snapshots[s.Kind()] = s
	}
	return r
}

// Add registers a snapshot, replacing any previous one for the kind.
func (r *Resolver) Add(s *registry.Snapshot) {
	r.snapshots[s.Kind()] = s
}

// Resolve links a raw foreign code to the referenced entity. An
// unresolved reference is logged and yields nil; it never fails the
// batch.
func (r *Resolver) Resolve(kind registry.Kind, rawCode string) *registry.Ref {
	if rawCode == "" {
		return nil
	}

	snapshot, ok := r.snapshots[kind]
	if !ok {
		logging.Warn().
			Str("kind", kind.String()).
			Msg("No snapshot registered for referenced kind")
		return nil
	}

	ref, ok := snapshot.Resolve(rawCode)
	if !ok {
		logging.Warn().
			Str("kind", kind.String()).
			Str("code", rawCode).
			Msg("Unresolved reference, leaving unset")
		return nil
	}
	return &ref
}
