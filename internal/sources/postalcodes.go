package sources

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/logging"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Byte-offset contract of the legacy postal code file (Latin-1, one
// title line skipped). Half-open character ranges:
//
//	0-5     record type tag
//	5-13    file running date, yyyymmdd
//	13-18   postal code
//	18-48   area name, Finnish
//	48-60   area name abbreviation, Finnish
//	60-90   area name, Swedish
//	90-102  area name abbreviation, Swedish
//	110-111 area type (1 normal, 2 PO box, ...)
//	213-216 municipality code
//	216-236 municipality name, Finnish
const (
	pcfCode, pcfCodeEnd                 = 13, 18
	pcfNameFi, pcfNameFiEnd             = 18, 48
	pcfAbbrFi, pcfAbbrFiEnd             = 48, 60
	pcfNameSe, pcfNameSeEnd             = 60, 90
	pcfAbbrSe, pcfAbbrSeEnd             = 90, 102
	pcfTypeCode, pcfTypeCodeEnd         = 110, 111
	pcfMunicipality, pcfMunicipalityEnd = 213, 216
)

// PostalCodes ingests the legacy fixed-width postal code file.
type PostalCodes struct {
	path string
	ver  string
}

// NewPostalCodes creates the postal code ingestor from the manifest.
func NewPostalCodes(m *Manifest) *PostalCodes {
	return &PostalCodes{path: m.Path(m.PostalCodes), ver: version(m.PostalCodes)}
}

// Dataset returns the ledger gate name.
func (p *PostalCodes) Dataset() string { return DatasetPostalCodes }

// Source returns the source file path.
func (p *PostalCodes) Source() string { return p.path }

// Version returns the candidate source version.
func (p *PostalCodes) Version() string { return p.ver }

// Ingest scans the fixed-width file line by line, resolving each area's
// municipality against the snapshot, then reconciles.
func (p *PostalCodes) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	snap, err := store.Snapshot(ctx, deps.Stores.Municipalities, registry.KindMunicipality,
		func(m *registry.Municipality) (string, string) { return m.CodeValue, m.ID })
	if err != nil {
		return nil, err
	}
	resolver := normalize.NewResolver(snap)

	src := sourceTag(p.path)
	reader := format.NewFixedWidth(f, true)

	var incoming []*registry.PostalCode
	skipped := 0

	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		area, err := parsePostalCodeLine(line, src, resolver)
		if err != nil {
			logging.Warn().Err(err).Str("file", p.path).Int("line", line.Num).Msg("Skipping invalid row")
			skipped++
			continue
		}
		incoming = append(incoming, area)
	}

	summary, err := sync(ctx, deps, DatasetPostalCodes, deps.Stores.PostalCodes, incoming, (*registry.PostalCode).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// parsePostalCodeLine normalizes one fixed-width record into a postal
// code entity.
func parsePostalCodeLine(line format.Line, src string, resolver *normalize.Resolver) (*registry.PostalCode, error) {
	area, err := registry.NewPostalCode(line.Field(pcfCode, pcfCodeEnd))
	if err != nil {
		return nil, err
	}

	area.Source = src
	area.Labels.Set(registry.LanguageFinnish, line.Field(pcfNameFi, pcfNameFiEnd))
	area.Labels.Set(registry.LanguageSwedish, line.Field(pcfNameSe, pcfNameSeEnd))
	area.Abbreviations.Set(registry.LanguageFinnish, line.Field(pcfAbbrFi, pcfAbbrFiEnd))
	area.Abbreviations.Set(registry.LanguageSwedish, line.Field(pcfAbbrSe, pcfAbbrSeEnd))

	if raw := line.Field(pcfTypeCode, pcfTypeCodeEnd); raw != "" {
		typeCode, err := strconv.Atoi(raw)
		if err == nil {
			area.TypeCode = typeCode
		}
	}

	area.Municipality = resolver.Resolve(registry.KindMunicipality, line.Field(pcfMunicipality, pcfMunicipalityEnd))
	return area, nil
}
