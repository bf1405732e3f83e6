package registry

// Magistrate represents a local register office (maistraatti).
type Magistrate struct {
	Base `yaml:",inline"`
}

// NewMagistrate creates a magistrate skeleton with a canonical code
// value and derived URI.
func NewMagistrate(rawCode string) (*Magistrate, error) {
	code, err := PadCode(KindMagistrate, rawCode)
	if err != nil {
		return nil, err
	}
	return &Magistrate{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindMagistrate, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (m *Magistrate) Apply(in *Magistrate) bool {
	return m.applyBase(in.Base)
}
