// Package format contains the source format adapters. Each adapter
// turns raw source bytes into ordered row records with named or
// positional fields; one adapter invocation reads one source from the
// beginning, so callers re-open the source for every pass.
package format

// Record is a single source row with named fields. Delimited and
// spreadsheet rows both satisfy it, which lets the normalizer treat the
// two the same way.
type Record interface {
	// Get returns the trimmed value of a named column, or the empty
	// string when the column is absent.
	Get(name string) string

	// Has reports whether the source declared the named column.
	Has(name string) bool

	// Headers returns all declared column names in source order.
	Headers() []string

	// Line returns the 1-based source line of the row, for logging.
	Line() int
}
