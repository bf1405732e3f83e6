package sources

import (
	"context"
	"io"
	"os"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/logging"
	"github.com/refcanon/refcanon/pkg/reconcile"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Byte-offset contract of the legacy basic address file (Latin-1, one
// title line skipped). Half-open character ranges:
//
//	0-5     record type tag
//	5-13    file running date, yyyymmdd
//	13-18   postal code
//	18-48   street name, Finnish
//	48-78   street name, Swedish
//	213-216 municipality code
//
// One street spans many lines (one per address number range), so lines
// fold into unique street entities before reconciliation.
const (
	bafPostalCode, bafPostalCodeEnd     = 13, 18
	bafStreetFi, bafStreetFiEnd         = 18, 48
	bafStreetSe, bafStreetSeEnd         = 48, 78
	bafMunicipality, bafMunicipalityEnd = 213, 216
)

// StreetAddresses ingests the legacy basic address file. The dataset is
// by far the largest, so reconciliation runs in concurrent chunks.
type StreetAddresses struct {
	path string
	ver  string
}

// NewStreetAddresses creates the street address ingestor from the
// manifest.
func NewStreetAddresses(m *Manifest) *StreetAddresses {
	return &StreetAddresses{path: m.Path(m.StreetAddresses), ver: version(m.StreetAddresses)}
}

// Dataset returns the ledger gate name.
func (s *StreetAddresses) Dataset() string { return DatasetStreetAddresses }

// Source returns the source file path.
func (s *StreetAddresses) Source() string { return s.path }

// Version returns the candidate source version.
func (s *StreetAddresses) Version() string { return s.ver }

// Ingest scans the file, folds address lines into unique streets and
// reconciles them in chunks.
func (s *StreetAddresses) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	municipalities, err := store.Snapshot(ctx, deps.Stores.Municipalities, registry.KindMunicipality,
		func(m *registry.Municipality) (string, string) { return m.CodeValue, m.ID })
	if err != nil {
		return nil, err
	}
	postalCodes, err := store.Snapshot(ctx, deps.Stores.PostalCodes, registry.KindPostalCode,
		func(p *registry.PostalCode) (string, string) { return p.CodeValue, p.ID })
	if err != nil {
		return nil, err
	}
	resolver := normalize.NewResolver(municipalities, postalCodes)

	src := sourceTag(s.path)
	reader := format.NewFixedWidth(f, true)
	streets := registry.NewOrderedMap[registry.StreetAddress]()
	skipped := 0

	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := foldStreetLine(line, src, resolver, streets); err != nil {
			logging.Warn().Err(err).Str("file", s.path).Int("line", line.Num).Msg("Skipping invalid row")
			skipped++
		}
	}

	summary, err := sync(ctx, deps, DatasetStreetAddresses, deps.Stores.StreetAddresses,
		streets.Values(), (*registry.StreetAddress).Apply, reconcile.DefaultChunkSize)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// foldStreetLine folds one address line into its street entity,
// creating the street on first sight.
func foldStreetLine(line format.Line, src string, resolver *normalize.Resolver, streets *registry.OrderedMap[registry.StreetAddress]) error {
	nameFi := line.Field(bafStreetFi, bafStreetFiEnd)
	if nameFi == "" {
		return errors.NewValidationError("street", "", "missing street name")
	}

	incoming, err := registry.NewStreetAddress(line.Field(bafMunicipality, bafMunicipalityEnd), nameFi)
	if err != nil {
		return err
	}

	street := streets.GetOrCreate(incoming.CodeValue, func() *registry.StreetAddress {
		return incoming
	})
	street.Source = src
	street.Labels.Set(registry.LanguageFinnish, nameFi)
	street.Labels.Set(registry.LanguageSwedish, line.Field(bafStreetSe, bafStreetSeEnd))
	street.Municipality = resolver.Resolve(registry.KindMunicipality, line.Field(bafMunicipality, bafMunicipalityEnd))
	street.PostalCode = resolver.Resolve(registry.KindPostalCode, line.Field(bafPostalCode, bafPostalCodeEnd))
	return nil
}
