// Package normalize coerces raw source fields into typed values and
// resolves foreign codes against the lookup snapshots taken at the
// start of an ingestion run.
package normalize

import (
	"strings"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/pkg/registry"
)

// LabelPrefix is the header family carrying display labels, e.g.
// PREFLABEL_FI, PREFLABEL_SE, PREFLABEL_EN.
const LabelPrefix = "PREFLABEL_"

// AbbreviationPrefix is the header family carrying short names.
const AbbreviationPrefix = "ABBR_"

// Labels collects every language-suffixed column matching prefix into a
// language keyed label map. Values are trimmed and empty values
// omitted.
func Labels(rec format.Record, prefix string) registry.Labels {
	labels := registry.Labels{}
	for _, header := range rec.Headers() {
		if !strings.HasPrefix(header, prefix) {
			continue
		}
		language := strings.ToLower(strings.TrimPrefix(header, prefix))
		if language == "" {
			continue
		}
		labels.Set(language, rec.Get(header))
	}
	return labels
}
