package registry

// Municipality represents a municipality (kunta). It links to the
// administrative entities it belongs to; each link is resolved once
// against the lookup snapshots taken at the start of the ingestion run
// and left nil when the target is not yet known.
type Municipality struct {
	Base `yaml:",inline"`

	Abbreviations      Labels `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"` // Language -> short name
	Region             *Ref   `json:"region,omitempty" yaml:"region,omitempty"`
	Magistrate         *Ref   `json:"magistrate,omitempty" yaml:"magistrate,omitempty"`
	HealthCareDistrict *Ref   `json:"healthCareDistrict,omitempty" yaml:"healthCareDistrict,omitempty"`
	ElectoralDistrict  *Ref   `json:"electoralDistrict,omitempty" yaml:"electoralDistrict,omitempty"`
}

// NewMunicipality creates a municipality skeleton with a canonical code
// value and derived URI.
func NewMunicipality(rawCode string) (*Municipality, error) {
	code, err := PadCode(KindMunicipality, rawCode)
	if err != nil {
		return nil, err
	}
	return &Municipality{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindMunicipality, code),
		Labels:    Labels{},
	}, Abbreviations: Labels{}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (m *Municipality) Apply(in *Municipality) bool {
	changed := m.applyBase(in.Base)
	if !m.Abbreviations.Equal(in.Abbreviations) {
		m.Abbreviations = in.Abbreviations.Clone()
		changed = true
	}
	if !RefEqual(m.Region, in.Region) {
		m.Region = in.Region
		changed = true
	}
	if !RefEqual(m.Magistrate, in.Magistrate) {
		m.Magistrate = in.Magistrate
		changed = true
	}
	if !RefEqual(m.HealthCareDistrict, in.HealthCareDistrict) {
		m.HealthCareDistrict = in.HealthCareDistrict
		changed = true
	}
	if !RefEqual(m.ElectoralDistrict, in.ElectoralDistrict) {
		m.ElectoralDistrict = in.ElectoralDistrict
		changed = true
	}
	return changed
}
