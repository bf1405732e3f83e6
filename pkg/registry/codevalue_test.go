package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/registry"
)

func TestPadCode(t *testing.T) {
	tests := []struct {
		name    string
		kind    registry.Kind
		raw     string
		want    string
		wantErr bool
	}{
		{name: "municipality single digit", kind: registry.KindMunicipality, raw: "5", want: "005"},
		{name: "municipality two digits", kind: registry.KindMunicipality, raw: "91", want: "091"},
		{name: "municipality full width", kind: registry.KindMunicipality, raw: "091", want: "091"},
		{name: "region single digit", kind: registry.KindRegion, raw: "1", want: "01"},
		{name: "postal code", kind: registry.KindPostalCode, raw: "100", want: "00100"},
		{name: "surrounding whitespace", kind: registry.KindRegion, raw: " 2 ", want: "02"},
		{name: "unpadded kind passes through", kind: registry.KindBusinessID, raw: "1234567-8", want: "1234567-8"},
		{name: "empty", kind: registry.KindMunicipality, raw: "", wantErr: true},
		{name: "blank", kind: registry.KindMunicipality, raw: "   ", wantErr: true},
		{name: "too wide", kind: registry.KindRegion, raw: "123", wantErr: true},
		{name: "non numeric", kind: registry.KindMunicipality, raw: "a1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.PadCode(tt.kind, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Padding an already canonical value must be a no-op.
func TestPadCodeIdempotent(t *testing.T) {
	kinds := []registry.Kind{
		registry.KindRegion,
		registry.KindMagistrate,
		registry.KindHealthCareDistrict,
		registry.KindElectoralDistrict,
		registry.KindMunicipality,
		registry.KindPostalCode,
	}
	raws := []string{"1", "7", "42", "91"}

	for _, kind := range kinds {
		for _, raw := range raws {
			once, err := registry.PadCode(kind, raw)
			require.NoError(t, err, "kind %s raw %s", kind, raw)
			twice, err := registry.PadCode(kind, once)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "kind %s raw %s", kind, raw)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    registry.Status
		wantErr bool
	}{
		{raw: "VALID", want: registry.StatusValid},
		{raw: "valid", want: registry.StatusValid},
		{raw: " Retired ", want: registry.StatusRetired},
		{raw: "", want: registry.StatusValid},
		{raw: "BOGUS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := registry.ParseStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabels(t *testing.T) {
	l := registry.Labels{}
	l.Set("FI", " Helsinki ")
	l.Set("se", "Helsingfors")
	l.Set("en", "   ")

	assert.Equal(t, "Helsinki", l.Get("fi"))
	assert.Equal(t, "Helsingfors", l.Get("SE"))
	assert.NotContains(t, l, "en")

	clone := l.Clone()
	clone.Set("fi", "Stadi")
	assert.Equal(t, "Helsinki", l.Get("fi"))
	assert.False(t, l.Equal(clone))
	assert.True(t, l.Equal(registry.Labels{"fi": "Helsinki", "se": "Helsingfors"}))
}

func TestURIDeterminism(t *testing.T) {
	a := registry.URIFor(registry.KindMunicipality, "091")
	b := registry.URIFor(registry.KindMunicipality, "091")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, registry.URIFor(registry.KindRegion, "091"))
	assert.Contains(t, a, "/municipality/091")
}
