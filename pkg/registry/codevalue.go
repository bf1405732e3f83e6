package registry

import (
	"strconv"
	"strings"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Code value widths per entity kind. Upstream feeds drop leading zeros
// inconsistently, so raw codes are always left-padded back to these
// fixed widths before use as natural keys.
const (
	RegionCodeWidth             = 2
	MagistrateCodeWidth         = 3
	HealthCareDistrictCodeWidth = 2
	ElectoralDistrictCodeWidth  = 2
	MunicipalityCodeWidth       = 3
	PostalCodeWidth             = 5
)

// codeWidths maps each padded kind to its fixed code value width.
// Kinds absent from this map (business ids, street addresses, code
// lists) use their raw code value verbatim.
var codeWidths = map[Kind]int{
	KindRegion:             RegionCodeWidth,
	KindMagistrate:         MagistrateCodeWidth,
	KindHealthCareDistrict: HealthCareDistrictCodeWidth,
	KindElectoralDistrict:  ElectoralDistrictCodeWidth,
	KindMunicipality:       MunicipalityCodeWidth,
	KindPostalCode:         PostalCodeWidth,
}

// PadCode coerces a raw source code into the canonical fixed-width code
// value for the given kind. Padding is idempotent: an already canonical
// value passes through unchanged.
func PadCode(kind Kind, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.NewValidationError("codeValue", raw, "empty code value")
	}

	width, ok := codeWidths[kind]
	if !ok {
		return raw, nil
	}

	if len(raw) > width {
		return "", errors.NewValidationError("codeValue", raw, "exceeds width "+strconv.Itoa(width))
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", errors.NewValidationError("codeValue", raw, "not numeric")
		}
	}

	return strings.Repeat("0", width-len(raw)) + raw, nil
}
