// Package sources wires one ingestor per dataset: a format adapter
// streaming raw rows, the normalizer producing typed reference-resolved
// records, and the reconciler upserting them against the persisted
// store. Ingestors run in a fixed dependency order so later datasets
// resolve references against entities produced by earlier ones.
package sources

import (
	"context"

	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/reconcile"
)

// Logical dataset names, one ledger gate each. Datasets derived from
// the same physical file still gate independently.
const (
	DatasetRegions             = "regions"
	DatasetMagistrates         = "magistrates"
	DatasetHealthCareDistricts = "health-care-districts"
	DatasetElectoralDistricts  = "electoral-districts"
	DatasetMunicipalities      = "municipalities"
	DatasetPostalCodes         = "postal-codes"
	DatasetStreetAddresses     = "street-addresses"
	DatasetBusinessIDs         = "business-ids"
	DatasetCodeRegistries      = "code-registries"
	DatasetCodeSchemes         = "code-schemes"
	DatasetCodes               = "codes"
)

// AllDatasets lists every dataset in its fixed dependency order. Later
// datasets resolve references against entities earlier ones produced.
var AllDatasets = []string{
	DatasetRegions,
	DatasetMagistrates,
	DatasetMunicipalities,
	DatasetHealthCareDistricts,
	DatasetElectoralDistricts,
	DatasetPostalCodes,
	DatasetStreetAddresses,
	DatasetBusinessIDs,
	DatasetCodeRegistries,
	DatasetCodeSchemes,
	DatasetCodes,
}

// Deps carries the collaborators every ingestor works against.
type Deps struct {
	Stores *store.Set

	// DryRun reconciles without writing anything back.
	DryRun bool
}

// Summary counts what one ingestion pass did.
type Summary struct {
	Created   int // entities that did not exist before
	Updated   int // entities with at least one changed field
	Unchanged int // records matching persisted state exactly
	Skipped   int // malformed rows logged and dropped
}

// Ingestor drives one dataset end to end.
type Ingestor interface {
	// Dataset returns the logical dataset name gating this ingestor.
	Dataset() string

	// Source returns the source location for the ledger audit row.
	Source() string

	// Version returns the candidate source version the ledger gates on.
	Version() string

	// Ingest runs the adapter, normalizer and reconciler path.
	Ingest(ctx context.Context, deps *Deps) (*Summary, error)
}

// sync reconciles incoming records of one entity type against the
// persisted state and writes the changed set back. A positive chunkSize
// partitions the batch for concurrent upserts.
func sync[E any, PE interface {
	reconcile.Entity
	*E
}](ctx context.Context, deps *Deps, dataset string, st store.Store[E], incoming []PE, apply func(existing, incoming PE) bool, chunkSize int) (*Summary, error) {
	persisted, err := st.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	existing := make([]PE, len(persisted))
	for i, e := range persisted {
		existing[i] = PE(e)
	}

	upserter := reconcile.NewUpserter(dataset, existing, apply)

	var result *reconcile.Result[PE]
	if chunkSize > 0 {
		result, err = upserter.ReconcileChunked(ctx, incoming, chunkSize)
	} else {
		result, err = upserter.Reconcile(incoming)
	}
	if err != nil {
		return nil, err
	}

	if !deps.DryRun {
		toSave := make([]*E, 0, result.Changes())
		for _, entity := range result.ToSave() {
			toSave = append(toSave, (*E)(entity))
		}
		if err := st.SaveAll(ctx, toSave); err != nil {
			return nil, err
		}
	}

	return &Summary{
		Created:   len(result.Created),
		Updated:   len(result.Updated),
		Unchanged: result.Unchanged,
	}, nil
}
