package sources

import (
	"context"
	"strconv"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Code list CSV columns beyond the shared set.
const (
	headerRefCodeRegistry = "REF_CODEREGISTRY"
	headerRefCodeScheme   = "REF_CODESCHEME"
	headerVersion         = "VERSION"
	headerShortName       = "SHORTNAME"
	headerOrder           = "ORDER"
)

// CodeRegistries ingests the code registry CSV.
type CodeRegistries struct {
	path string
	ver  string
}

// NewCodeRegistries creates the ingestor from the manifest.
func NewCodeRegistries(m *Manifest) *CodeRegistries {
	return &CodeRegistries{path: m.Path(m.CodeRegistries), ver: version(m.CodeRegistries)}
}

// Dataset returns the ledger gate name.
func (c *CodeRegistries) Dataset() string { return DatasetCodeRegistries }

// Source returns the source file path.
func (c *CodeRegistries) Source() string { return c.path }

// Version returns the candidate source version.
func (c *CodeRegistries) Version() string { return c.ver }

// Ingest streams the CSV through the normalizer and reconciler.
func (c *CodeRegistries) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	src := sourceTag(c.path)
	var incoming []*registry.CodeRegistry

	skipped, err := readDelimited(c.path, []string{headerCodeValue, "PREFLABEL_FI"}, func(rec format.Record) error {
		reg, err := registry.NewCodeRegistry(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &reg.Base, src); err != nil {
			return err
		}
		incoming = append(incoming, reg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := sync(ctx, deps, DatasetCodeRegistries, deps.Stores.CodeRegistries, incoming, (*registry.CodeRegistry).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// CodeSchemes ingests the code scheme CSV. Every scheme links back to
// its registry.
type CodeSchemes struct {
	path string
	ver  string
}

// NewCodeSchemes creates the ingestor from the manifest.
func NewCodeSchemes(m *Manifest) *CodeSchemes {
	return &CodeSchemes{path: m.Path(m.CodeSchemes), ver: version(m.CodeSchemes)}
}

// Dataset returns the ledger gate name.
func (c *CodeSchemes) Dataset() string { return DatasetCodeSchemes }

// Source returns the source file path.
func (c *CodeSchemes) Source() string { return c.path }

// Version returns the candidate source version.
func (c *CodeSchemes) Version() string { return c.ver }

// Ingest streams the CSV through the normalizer with a registry
// resolver, then reconciles.
func (c *CodeSchemes) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	registries, err := store.Snapshot(ctx, deps.Stores.CodeRegistries, registry.KindCodeRegistry,
		func(r *registry.CodeRegistry) (string, string) { return r.CodeValue, r.ID })
	if err != nil {
		return nil, err
	}
	resolver := normalize.NewResolver(registries)

	src := sourceTag(c.path)
	var incoming []*registry.CodeScheme

	skipped, err := readDelimited(c.path, []string{headerCodeValue, "PREFLABEL_FI"}, func(rec format.Record) error {
		scheme, err := registry.NewCodeScheme(rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &scheme.Base, src); err != nil {
			return err
		}
		scheme.Registry = resolver.Resolve(registry.KindCodeRegistry, rec.Get(headerRefCodeRegistry))
		scheme.Version = rec.Get(headerVersion)
		incoming = append(incoming, scheme)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := sync(ctx, deps, DatasetCodeSchemes, deps.Stores.CodeSchemes, incoming, (*registry.CodeScheme).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// Codes ingests the code CSV. Code values are unique within their
// scheme, so every row names its scheme.
type Codes struct {
	path string
	ver  string
}

// NewCodes creates the ingestor from the manifest.
func NewCodes(m *Manifest) *Codes {
	return &Codes{path: m.Path(m.Codes), ver: version(m.Codes)}
}

// Dataset returns the ledger gate name.
func (c *Codes) Dataset() string { return DatasetCodes }

// Source returns the source file path.
func (c *Codes) Source() string { return c.path }

// Version returns the candidate source version.
func (c *Codes) Version() string { return c.ver }

// Ingest streams the CSV through the normalizer with a scheme resolver,
// then reconciles.
func (c *Codes) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	schemes, err := store.Snapshot(ctx, deps.Stores.CodeSchemes, registry.KindCodeScheme,
		func(s *registry.CodeScheme) (string, string) { return s.CodeValue, s.ID })
	if err != nil {
		return nil, err
	}
	resolver := normalize.NewResolver(schemes)

	src := sourceTag(c.path)
	var incoming []*registry.Code

	skipped, err := readDelimited(c.path, []string{headerCodeValue, headerRefCodeScheme, "PREFLABEL_FI"}, func(rec format.Record) error {
		code, err := registry.NewCode(rec.Get(headerRefCodeScheme), rec.Get(headerCodeValue))
		if err != nil {
			return err
		}
		if err := applyCommon(rec, &code.Base, src); err != nil {
			return err
		}
		code.Scheme = resolver.Resolve(registry.KindCodeScheme, rec.Get(headerRefCodeScheme))
		code.ShortName = rec.Get(headerShortName)
		if raw := rec.Get(headerOrder); raw != "" {
			if order, err := strconv.Atoi(raw); err == nil {
				code.Order = order
			}
		}
		incoming = append(incoming, code)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := sync(ctx, deps, DatasetCodes, deps.Stores.Codes, incoming, (*registry.Code).Apply, 0)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return summary, nil
}
