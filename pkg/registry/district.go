package registry

// HealthCareDistrict represents a hospital district (sairaanhoitopiiri).
// Its municipality membership grows row by row while the municipality
// source is scanned, so the entity is composite.
type HealthCareDistrict struct {
	Base       `yaml:",inline"`
	MemberList `yaml:",inline"`

	// SpecialAreaOfResponsibility is the university hospital catchment
	// area code this district belongs to, when declared by the source.
	SpecialAreaOfResponsibility string `json:"specialAreaOfResponsibility,omitempty" yaml:"specialAreaOfResponsibility,omitempty"`
}

// NewHealthCareDistrict creates a district skeleton with a canonical
// code value and derived URI.
func NewHealthCareDistrict(rawCode string) (*HealthCareDistrict, error) {
	code, err := PadCode(KindHealthCareDistrict, rawCode)
	if err != nil {
		return nil, err
	}
	return &HealthCareDistrict{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindHealthCareDistrict, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (d *HealthCareDistrict) Apply(in *HealthCareDistrict) bool {
	changed := d.applyBase(in.Base)
	if d.SpecialAreaOfResponsibility != in.SpecialAreaOfResponsibility {
		d.SpecialAreaOfResponsibility = in.SpecialAreaOfResponsibility
		changed = true
	}
	if !d.membersEqual(in.MemberList) {
		d.MemberList = MemberList{Members: append([]Ref(nil), in.Members...)}
		changed = true
	}
	return changed
}

// ElectoralDistrict represents a parliamentary electoral district
// (vaalipiiri), composite over its member municipalities.
type ElectoralDistrict struct {
	Base       `yaml:",inline"`
	MemberList `yaml:",inline"`
}

// NewElectoralDistrict creates a district skeleton with a canonical
// code value and derived URI.
func NewElectoralDistrict(rawCode string) (*ElectoralDistrict, error) {
	code, err := PadCode(KindElectoralDistrict, rawCode)
	if err != nil {
		return nil, err
	}
	return &ElectoralDistrict{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindElectoralDistrict, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (d *ElectoralDistrict) Apply(in *ElectoralDistrict) bool {
	changed := d.applyBase(in.Base)
	if !d.membersEqual(in.MemberList) {
		d.MemberList = MemberList{Members: append([]Ref(nil), in.Members...)}
		changed = true
	}
	return changed
}
