// Package refcanon ingests national reference-data registries from
// heterogeneous sources and reconciles them into a canonical store.
// The facade runs every dataset in a fixed dependency order, gated by
// an ingestion ledger so unchanged source versions are skipped.
package refcanon

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/refcanon/refcanon/internal/ledger"
	"github.com/refcanon/refcanon/internal/sources"
	"github.com/refcanon/refcanon/internal/store"
)

// Refcanon drives ingestion runs and exposes the ledger's run history.
type Refcanon interface {
	// Run executes one ingestion pass over every dataset in dependency
	// order. One dataset failing never halts the others; per-dataset
	// outcomes are collected in the report.
	Run(ctx context.Context) (*Report, error)

	// Status returns the recorded run history for one dataset, most
	// recent first.
	Status(ctx context.Context, dataset string) ([]RunStatus, error)

	// Close releases the underlying resources.
	Close() error
}

// RunStatus is one ledger audit row.
type RunStatus struct {
	Dataset  string    // logical dataset gate
	Source   string    // source location
	Version  string    // source version the run ingested
	State    string    // RUNNING, SUCCESS or FAILED
	Error    string    // failure cause, empty otherwise
	Started  utc.Time  // run start time
	Finished *utc.Time // finalization time, nil while RUNNING
}

// refcanon is the internal implementation of the Refcanon interface.
type refcanon struct {
	config   *config
	manifest *sources.Manifest
	stores   *store.Set
	ledger   ledger.Ledger
}

// New creates a Refcanon instance with the given options. Without a
// database path everything is held in memory, which suits tests and
// dry runs; with one, both the entity store and the ledger persist.
func New(opts ...Option) (Refcanon, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	r := &refcanon{config: c}

	if c.manifest != nil {
		r.manifest = c.manifest
	} else if c.manifestPath != "" {
		m, err := sources.LoadManifest(c.manifestPath)
		if err != nil {
			return nil, err
		}
		r.manifest = m
	}

	switch {
	case c.stores != nil:
		r.stores = c.stores
	case c.databasePath != "":
		set, err := store.OpenSet(c.databasePath)
		if err != nil {
			return nil, err
		}
		r.stores = set
	default:
		r.stores = store.NewMemorySet()
	}

	switch {
	case c.ledger != nil:
		r.ledger = c.ledger
	case r.stores.DB() != nil:
		l, err := ledger.NewSQLite(r.stores.DB())
		if err != nil {
			_ = r.stores.Close()
			return nil, err
		}
		r.ledger = l
	default:
		r.ledger = ledger.NewMemory()
	}

	return r, nil
}

// Status returns the run history for one dataset.
func (r *refcanon) Status(ctx context.Context, dataset string) ([]RunStatus, error) {
	runs, err := r.ledger.History(ctx, dataset)
	if err != nil {
		return nil, err
	}
	out := make([]RunStatus, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunStatus{
			Dataset:  run.Dataset,
			Source:   run.Source,
			Version:  run.Version,
			State:    run.State.String(),
			Error:    run.Error,
			Started:  run.Started,
			Finished: run.Finished,
		})
	}
	return out, nil
}

// Close releases the underlying resources.
func (r *refcanon) Close() error {
	return r.stores.Close()
}

// Datasets lists every dataset name in dependency order.
func Datasets() []string {
	return append([]string(nil), sources.AllDatasets...)
}
