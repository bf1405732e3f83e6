package registry

import (
	"strings"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Status represents the source-declared lifecycle state of an entity.
type Status string

// String returns the string representation of a Status.
func (s Status) String() string {
	return string(s)
}

// Entity lifecycle statuses.
const (
	StatusDraft      Status = "DRAFT"
	StatusValid      Status = "VALID"
	StatusSuperseded Status = "SUPERSEDED"
	StatusRetired    Status = "RETIRED"
	StatusInvalid    Status = "INVALID"
)

// statuses is the closed set of accepted status values.
var statuses = map[Status]struct{}{
	StatusDraft:      {},
	StatusValid:      {},
	StatusSuperseded: {},
	StatusRetired:    {},
	StatusInvalid:    {},
}

// ParseStatus maps a raw source string to the closed status enum.
// An empty string defaults to VALID, which is what the upstream feeds
// mean when they omit the column.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusValid, nil
	}
	s := Status(strings.ToUpper(raw))
	if _, ok := statuses[s]; !ok {
		return "", errors.NewValidationError("status", raw, "unknown status value")
	}
	return s, nil
}
