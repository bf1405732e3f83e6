package sources

import (
	"context"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Municipality CSV reference columns, each carrying a foreign code
// value. Region and magistrate targets are ingested earlier in the
// run; the district columns only resolve once districts exist, and on
// a first run the district pass writes those links back itself.
const (
	headerRefRegion             = "REF_REGION"
	headerRefMagistrate         = "REF_MAGISTRATE"
	headerRefHealthCareDistrict = "REF_HEALTHCAREDISTRICT"
	headerRefElectoralDistrict  = "REF_ELECTORALDISTRICT"
)

// Municipalities ingests the municipality CSV. Every row links to the
// administrative entities it belongs to, resolved against the
// snapshots taken at the start of the run.
type Municipalities struct {
	path string
	ver  string
}

// NewMunicipalities creates the municipality ingestor from the
// manifest.
func NewMunicipalities(m *Manifest) *Municipalities {
	return &Municipalities{path: m.Path(m.Municipalities), ver: version(m.Municipalities)}
}

// Dataset returns the ledger gate name.
func (g *Municipalities) Dataset() string { return DatasetMunicipalities }

// Source returns the source file path.
func (g *Municipalities) Source() string { return g.path }

// Version returns the candidate source version.
func (g *Municipalities) Version() string { return g.ver }

// Ingest streams the CSV through the normalizer with a resolver over
// all four referenced kinds, then reconciles.
func (g *Municipalities) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	resolver, err := adminResolver(ctx, deps.Stores)
	if err != nil {
		return nil, err
	}

	src := sourceTag(g.path)
	var incoming []*registry.Municipality

	skipped, err := readDelimited(g.path, []string{headerCodeValue, "PREFLABEL_FI"}, func(rec format.Record) error {
		municipality, err := registry.NewMunicipality(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &municipality.Base, src); err != nil {
			return err
		}
		municipality.Abbreviations = normalize.Labels(rec, normalize.AbbreviationPrefix)
		municipality.Region = resolver.Resolve(registry.KindRegion, rec.Get(headerRefRegion))
		municipality.Magistrate = resolver.Resolve(registry.KindMagistrate, rec.Get(headerRefMagistrate))
		municipality.HealthCareDistrict = resolver.Resolve(registry.KindHealthCareDistrict, rec.Get(headerRefHealthCareDistrict))
		municipality.ElectoralDistrict = resolver.Resolve(registry.KindElectoralDistrict, rec.Get(headerRefElectoralDistrict))
		incoming = append(incoming, municipality)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := sync(ctx, deps, DatasetMunicipalities, deps.Stores.Municipalities, incoming, (*registry.Municipality).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// adminResolver builds a resolver over every kind a municipality
// references. Snapshots are taken once, before the first row.
func adminResolver(ctx context.Context, stores *store.Set) (*normalize.Resolver, error) {
	regions, err := store.Snapshot(ctx, stores.Regions, registry.KindRegion,
		func(r *registry.Region) (string, string) { return r.CodeValue, r.ID })
	if err != nil {
		return nil, err
	}
	magistrates, err := store.Snapshot(ctx, stores.Magistrates, registry.KindMagistrate,
		func(m *registry.Magistrate) (string, string) { return m.CodeValue, m.ID })
	if err != nil {
		return nil, err
	}
	healthCare, err := store.Snapshot(ctx, stores.HealthCareDistricts, registry.KindHealthCareDistrict,
		func(d *registry.HealthCareDistrict) (string, string) { return d.CodeValue, d.ID })
	if err != nil {
		return nil, err
	}
	electoral, err := store.Snapshot(ctx, stores.ElectoralDistricts, registry.KindElectoralDistrict,
		func(d *registry.ElectoralDistrict) (string, string) { return d.CodeValue, d.ID })
	if err != nil {
		return nil, err
	}
	return normalize.NewResolver(regions, magistrates, healthCare, electoral), nil
}
