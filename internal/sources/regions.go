package sources

import (
	"context"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Regions ingests the administrative region CSV.
type Regions struct {
	path string
	ver  string
}

// NewRegions creates the region ingestor from the manifest.
func NewRegions(m *Manifest) *Regions {
	return &Regions{path: m.Path(m.Regions), ver: version(m.Regions)}
}

// Dataset returns the ledger gate name.
func (r *Regions) Dataset() string { return DatasetRegions }

// Source returns the source file path.
func (r *Regions) Source() string { return r.path }

// Version returns the candidate source version.
func (r *Regions) Version() string { return r.ver }

// Ingest streams the CSV through the normalizer and reconciler.
func (r *Regions) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	src := sourceTag(r.path)
	var incoming []*registry.Region

	skipped, err := readDelimited(r.path, []string{headerCodeValue, "PREFLABEL_FI"}, func(rec format.Record) error {
		region, err := registry.NewRegion(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &region.Base, src); err != nil {
			return err
		}
		incoming = append(incoming, region)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := sync(ctx, deps, DatasetRegions, deps.Stores.Regions, incoming, (*registry.Region).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}
