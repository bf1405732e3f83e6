package sources

import (
	"context"
	"os"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Magistrates ingests the register office sheet of the municipality
// workbook.
type Magistrates struct {
	path  string
	sheet string
	ver   string
}

// NewMagistrates creates the magistrate ingestor from the manifest.
func NewMagistrates(m *Manifest) *Magistrates {
	return &Magistrates{
		path:  m.Path(m.Magistrates),
		sheet: m.Magistrates.Sheet,
		ver:   version(m.Magistrates),
	}
}

// Dataset returns the ledger gate name.
func (g *Magistrates) Dataset() string { return DatasetMagistrates }

// Source returns the source file path.
func (g *Magistrates) Source() string { return g.path }

// Version returns the candidate source version.
func (g *Magistrates) Version() string { return g.ver }

// Ingest reads the worksheet through the normalizer and reconciler.
func (g *Magistrates) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	f, err := os.Open(g.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheet, err := format.OpenSheet(f, g.sheet)
	if err != nil {
		return nil, err
	}
	if err := sheet.Require(headerCodeValue, "PREFLABEL_FI"); err != nil {
		return nil, err
	}

	src := sourceTag(g.path)
	var incoming []*registry.Magistrate

	skipped := eachSheetRow(g.path, sheet.Rows(), func(rec format.Record) error {
		magistrate, err := registry.NewMagistrate(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &magistrate.Base, src); err != nil {
			return err
		}
		incoming = append(incoming, magistrate)
		return nil
	})

	summary, err := sync(ctx, deps, DatasetMagistrates, deps.Stores.Magistrates, incoming, (*registry.Magistrate).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}
