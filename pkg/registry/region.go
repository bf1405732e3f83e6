package registry

// Region represents an administrative region (maakunta).
type Region struct {
	Base `yaml:",inline"`
}

// NewRegion creates a region skeleton with a canonical code value and
// derived URI. Identity is assigned by the reconciler at creation time.
func NewRegion(rawCode string) (*Region, error) {
	code, err := PadCode(KindRegion, rawCode)
	if err != nil {
		return nil, err
	}
	return &Region{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindRegion, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (r *Region) Apply(in *Region) bool {
	return r.applyBase(in.Base)
}
