package refcanon

import (
	"github.com/refcanon/refcanon/internal/ledger"
	"github.com/refcanon/refcanon/internal/sources"
	"github.com/refcanon/refcanon/internal/store"
)

// Option is a function that configures a Refcanon instance.
type Option func(*config) error

// config holds the assembled configuration.
type config struct {
	manifestPath string
	manifest     *sources.Manifest
	databasePath string
	dryRun       bool

	// test seams
	stores *store.Set
	ledger ledger.Ledger
}

func defaultConfig() *config {
	return &config{}
}

// WithManifestFile configures the YAML source manifest to load.
func WithManifestFile(path string) Option {
	return func(c *config) error {
		c.manifestPath = path
		return nil
	}
}

// WithDatabase configures the SQLite database path backing both the
// entity store and the ingestion ledger. Without it everything is held
// in memory.
func WithDatabase(path string) Option {
	return func(c *config) error {
		c.databasePath = path
		return nil
	}
}

// WithDryRun configures whether runs reconcile without writing
// entities or ledger rows back.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// withManifest injects an assembled manifest directly.
func withManifest(m *sources.Manifest) Option {
	return func(c *config) error {
		c.manifest = m
		return nil
	}
}

// withStores injects a prebuilt store set.
func withStores(s *store.Set) Option {
	return func(c *config) error {
		c.stores = s
		return nil
	}
}

// withLedger injects a prebuilt ledger.
func withLedger(l ledger.Ledger) Option {
	return func(c *config) error {
		c.ledger = l
		return nil
	}
}
