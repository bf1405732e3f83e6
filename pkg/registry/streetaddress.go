package registry

// StreetAddress represents one street within a municipality, taken from
// the legacy basic address file. The natural key is composed from the
// municipality code and the Finnish street name, since the upstream
// file carries no street identifier of its own.
type StreetAddress struct {
	Base `yaml:",inline"`

	Municipality *Ref `json:"municipality,omitempty" yaml:"municipality,omitempty"`
	PostalCode   *Ref `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
}

// StreetAddressKey composes the natural key for a street address from
// the canonical municipality code and the Finnish street name.
func StreetAddressKey(municipalityCode, streetNameFi string) string {
	return municipalityCode + ";" + streetNameFi
}

// NewStreetAddress creates a street address skeleton keyed by
// municipality code and Finnish street name.
func NewStreetAddress(municipalityCode, streetNameFi string) (*StreetAddress, error) {
	code, err := PadCode(KindMunicipality, municipalityCode)
	if err != nil {
		return nil, err
	}
	key := StreetAddressKey(code, streetNameFi)
	return &StreetAddress{Base: Base{
		CodeValue: key,
		Status:    StatusValid,
		URI:       URIFor(KindStreetAddress, key),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (s *StreetAddress) Apply(in *StreetAddress) bool {
	changed := s.applyBase(in.Base)
	if !RefEqual(s.Municipality, in.Municipality) {
		s.Municipality = in.Municipality
		changed = true
	}
	if !RefEqual(s.PostalCode, in.PostalCode) {
		s.PostalCode = in.PostalCode
		changed = true
	}
	return changed
}
