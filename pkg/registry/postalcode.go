package registry

// PostalCode represents a postal code area. The name labels come from
// the legacy fixed-width postal code file; the municipality link is
// resolved against the snapshot of previously ingested municipalities.
type PostalCode struct {
	Base `yaml:",inline"`

	Abbreviations Labels `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"` // Language -> abbreviated area name
	TypeCode      int    `json:"typeCode" yaml:"typeCode"`                               // Source-declared area type (1 = normal, 2 = PO box, ...)
	Municipality  *Ref   `json:"municipality,omitempty" yaml:"municipality,omitempty"`
}

// NewPostalCode creates a postal code skeleton with a canonical code
// value and derived URI.
func NewPostalCode(rawCode string) (*PostalCode, error) {
	code, err := PadCode(KindPostalCode, rawCode)
	if err != nil {
		return nil, err
	}
	return &PostalCode{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindPostalCode, code),
		Labels:    Labels{},
	}, Abbreviations: Labels{}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (p *PostalCode) Apply(in *PostalCode) bool {
	changed := p.applyBase(in.Base)
	if !p.Abbreviations.Equal(in.Abbreviations) {
		p.Abbreviations = in.Abbreviations.Clone()
		changed = true
	}
	if p.TypeCode != in.TypeCode {
		p.TypeCode = in.TypeCode
		changed = true
	}
	if !RefEqual(p.Municipality, in.Municipality) {
		p.Municipality = in.Municipality
		changed = true
	}
	return changed
}
