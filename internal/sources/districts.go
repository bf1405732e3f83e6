package sources

import (
	"context"
	"os"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/registry"
)

// The district sheets carry one row per (district, member municipality)
// pair; repeated rows for the same district grow its member list.
const headerMemberCodeValue = "MEMBER_CODEVALUE"

// HealthCareDistricts ingests the hospital district sheet of the
// municipality workbook. Districts are composite: membership is
// discovered row by row.
type HealthCareDistricts struct {
	path  string
	sheet string
	ver   string
}

// NewHealthCareDistricts creates the ingestor from the manifest.
func NewHealthCareDistricts(m *Manifest) *HealthCareDistricts {
	return &HealthCareDistricts{
		path:  m.Path(m.HealthCareDistricts),
		sheet: m.HealthCareDistricts.Sheet,
		ver:   version(m.HealthCareDistricts),
	}
}

// Dataset returns the ledger gate name.
func (h *HealthCareDistricts) Dataset() string { return DatasetHealthCareDistricts }

// Source returns the source file path.
func (h *HealthCareDistricts) Source() string { return h.path }

// Version returns the candidate source version.
func (h *HealthCareDistricts) Version() string { return h.ver }

// Ingest reads the worksheet, folds rows into composite district
// entities, reconciles them and writes the discovered assignment back
// onto the member municipalities.
func (h *HealthCareDistricts) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	rows, err := openSheetRows(h.path, h.sheet, 0, 0)
	if err != nil {
		return nil, err
	}

	resolver, err := municipalityResolver(ctx, deps.Stores)
	if err != nil {
		return nil, err
	}

	src := sourceTag(h.path)
	districts := registry.NewOrderedMap[registry.HealthCareDistrict]()
	assignments := make(map[string]string)

	skipped := eachSheetRow(h.path, rows, func(rec format.Record) error {
		incoming, err := registry.NewHealthCareDistrict(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		district := districts.GetOrCreate(incoming.CodeValue, func() *registry.HealthCareDistrict {
			return incoming
		})

		if err := applyCommon(rec, &district.Base, src); err != nil {
			return err
		}
		if area := rec.Get("SPECIALAREAOFRESPONSIBILITY"); area != "" {
			district.SpecialAreaOfResponsibility = area
		}
		if ref := resolver.Resolve(registry.KindMunicipality, rec.Get(headerMemberCodeValue)); ref != nil {
			district.AddMember(*ref)
			assignments[ref.CodeValue] = district.CodeValue
		}
		return nil
	})

	summary, err := sync(ctx, deps, DatasetHealthCareDistricts, deps.Stores.HealthCareDistricts,
		districts.Values(), (*registry.HealthCareDistrict).Apply, 0)
	if err != nil {
		return nil, err
	}

	snap, err := store.Snapshot(ctx, deps.Stores.HealthCareDistricts, registry.KindHealthCareDistrict,
		func(d *registry.HealthCareDistrict) (string, string) { return d.CodeValue, d.ID })
	if err != nil {
		return nil, err
	}
	back, err := writeBackAssignments(ctx, deps, DatasetHealthCareDistricts,
		normalize.NewResolver(snap), registry.KindHealthCareDistrict, assignments,
		func(m *registry.Municipality, ref *registry.Ref) { m.HealthCareDistrict = ref })
	if err != nil {
		return nil, err
	}
	summary.Updated += back.Updated
	summary.Skipped = skipped
	return summary, nil
}

// ElectoralDistricts ingests the electoral district sheet. The legacy
// sheet has no reliable end marker, so a fixed row range from the
// manifest bounds the scan.
type ElectoralDistricts struct {
	path    string
	sheet   string
	rowFrom int
	rowTo   int
	ver     string
}

// NewElectoralDistricts creates the ingestor from the manifest.
func NewElectoralDistricts(m *Manifest) *ElectoralDistricts {
	return &ElectoralDistricts{
		path:    m.Path(m.ElectoralDistricts),
		sheet:   m.ElectoralDistricts.Sheet,
		rowFrom: m.ElectoralDistricts.RowFrom,
		rowTo:   m.ElectoralDistricts.RowTo,
		ver:     version(m.ElectoralDistricts),
	}
}

// Dataset returns the ledger gate name.
func (e *ElectoralDistricts) Dataset() string { return DatasetElectoralDistricts }

// Source returns the source file path.
func (e *ElectoralDistricts) Source() string { return e.path }

// Version returns the candidate source version.
func (e *ElectoralDistricts) Version() string { return e.ver }

// Ingest reads the bounded worksheet range, folds rows into composite
// district entities, reconciles them and writes the discovered
// assignment back onto the member municipalities.
func (e *ElectoralDistricts) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	rows, err := openSheetRows(e.path, e.sheet, e.rowFrom, e.rowTo)
	if err != nil {
		return nil, err
	}

	resolver, err := municipalityResolver(ctx, deps.Stores)
	if err != nil {
		return nil, err
	}

	src := sourceTag(e.path)
	districts := registry.NewOrderedMap[registry.ElectoralDistrict]()
	assignments := make(map[string]string)

	skipped := eachSheetRow(e.path, rows, func(rec format.Record) error {
		incoming, err := registry.NewElectoralDistrict(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		district := districts.GetOrCreate(incoming.CodeValue, func() *registry.ElectoralDistrict {
			return incoming
		})

		if err := applyCommon(rec, &district.Base, src); err != nil {
			return err
		}
		if ref := resolver.Resolve(registry.KindMunicipality, rec.Get(headerMemberCodeValue)); ref != nil {
			district.AddMember(*ref)
			assignments[ref.CodeValue] = district.CodeValue
		}
		return nil
	})

	summary, err := sync(ctx, deps, DatasetElectoralDistricts, deps.Stores.ElectoralDistricts,
		districts.Values(), (*registry.ElectoralDistrict).Apply, 0)
	if err != nil {
		return nil, err
	}

	snap, err := store.Snapshot(ctx, deps.Stores.ElectoralDistricts, registry.KindElectoralDistrict,
		func(d *registry.ElectoralDistrict) (string, string) { return d.CodeValue, d.ID })
	if err != nil {
		return nil, err
	}
	back, err := writeBackAssignments(ctx, deps, DatasetElectoralDistricts,
		normalize.NewResolver(snap), registry.KindElectoralDistrict, assignments,
		func(m *registry.Municipality, ref *registry.Ref) { m.ElectoralDistrict = ref })
	if err != nil {
		return nil, err
	}
	summary.Updated += back.Updated
	summary.Skipped = skipped
	return summary, nil
}

// openSheetRows opens the workbook at path and returns the data rows of
// the named sheet, bounded to [rowFrom, rowTo) when a range is set.
func openSheetRows(path, sheetName string, rowFrom, rowTo int) ([]format.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheet, err := format.OpenSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if err := sheet.Require(headerCodeValue, headerMemberCodeValue); err != nil {
		return nil, err
	}

	if rowTo > 0 {
		return sheet.RowRange(rowFrom, rowTo), nil
	}
	return sheet.Rows(), nil
}

// writeBackAssignments reverses the membership rows onto the member
// municipalities: each member gets its district reference set through
// the regular reconcile path, so the link resolves in the same pass
// that discovered the membership. Assignments map member code value to
// district code value; districts are re-resolved from the store so
// freshly created ones carry their persisted id.
func writeBackAssignments(ctx context.Context, deps *Deps, dataset string, resolver *normalize.Resolver, kind registry.Kind, assignments map[string]string, set func(m *registry.Municipality, ref *registry.Ref)) (*Summary, error) {
	if len(assignments) == 0 {
		return &Summary{}, nil
	}

	munis, err := deps.Stores.Municipalities.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*registry.Municipality, len(munis))
	for _, m := range munis {
		byCode[m.CodeValue] = m
	}

	var incoming []*registry.Municipality
	for memberCode, districtCode := range assignments {
		m, ok := byCode[memberCode]
		if !ok {
			continue
		}
		ref := resolver.Resolve(kind, districtCode)
		if ref == nil {
			continue
		}
		set(m, ref)
		incoming = append(incoming, m)
	}
	if len(incoming) == 0 {
		return &Summary{}, nil
	}

	return sync(ctx, deps, dataset, deps.Stores.Municipalities, incoming,
		(*registry.Municipality).Apply, 0)
}

// municipalityResolver builds a resolver over the already ingested
// municipalities.
func municipalityResolver(ctx context.Context, stores *store.Set) (*normalize.Resolver, error) {
	snap, err := store.Snapshot(ctx, stores.Municipalities, registry.KindMunicipality,
		func(m *registry.Municipality) (string, string) { return m.CodeValue, m.ID })
	if err != nil {
		return nil, err
	}
	return normalize.NewResolver(snap), nil
}
