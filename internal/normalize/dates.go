package normalize

import (
	"strings"
	"time"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Date layouts seen across the upstream feeds. ISO dates come from the
// newer CSV exports, dotted day-first dates from the legacy files.
var dateLayouts = []string{
	"2006-01-02",
	"2.1.2006",
	"02.01.2006",
	"20060102",
}

// ParseDate parses a calendar date in any accepted source layout. An
// empty string is an absent date, which is always acceptable.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d, nil
		}
	}
	return nil, errors.NewValidationError("date", raw, "unparseable date")
}

// ValidateDates rejects a record whose end date is strictly before its
// start date. Either bound may be absent.
func ValidateDates(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return errors.NewValidationError("endDate", end.Format("2006-01-02"), "end date before start date")
	}
	return nil
}
