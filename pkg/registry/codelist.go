package registry

// CodeRegistry groups code schemes published by one authority.
type CodeRegistry struct {
	Base `yaml:",inline"`
}

// NewCodeRegistry creates a code registry skeleton.
func NewCodeRegistry(rawCode string) (*CodeRegistry, error) {
	code, err := PadCode(KindCodeRegistry, rawCode)
	if err != nil {
		return nil, err
	}
	return &CodeRegistry{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindCodeRegistry, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (r *CodeRegistry) Apply(in *CodeRegistry) bool {
	return r.applyBase(in.Base)
}

// CodeScheme is one code list inside a registry, e.g. a classification
// standard with its own version string.
type CodeScheme struct {
	Base `yaml:",inline"`

	Registry *Ref   `json:"codeRegistry,omitempty" yaml:"codeRegistry,omitempty"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"` // Source-declared content version
}

// NewCodeScheme creates a code scheme skeleton.
func NewCodeScheme(rawCode string) (*CodeScheme, error) {
	code, err := PadCode(KindCodeScheme, rawCode)
	if err != nil {
		return nil, err
	}
	return &CodeScheme{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindCodeScheme, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (s *CodeScheme) Apply(in *CodeScheme) bool {
	changed := s.applyBase(in.Base)
	if !RefEqual(s.Registry, in.Registry) {
		s.Registry = in.Registry
		changed = true
	}
	if s.Version != in.Version {
		s.Version = in.Version
		changed = true
	}
	return changed
}

// Code is a single value within a code scheme.
type Code struct {
	Base `yaml:",inline"`

	Scheme    *Ref   `json:"codeScheme,omitempty" yaml:"codeScheme,omitempty"`
	ShortName string `json:"shortName,omitempty" yaml:"shortName,omitempty"`
	Order     int    `json:"order" yaml:"order"` // Position within the scheme
}

// NewCode creates a code skeleton. Code values are unique within their
// scheme, so the key is prefixed with the scheme code.
func NewCode(schemeCode, rawCode string) (*Code, error) {
	code, err := PadCode(KindCode, rawCode)
	if err != nil {
		return nil, err
	}
	key := schemeCode + ";" + code
	return &Code{Base: Base{
		CodeValue: key,
		Status:    StatusValid,
		URI:       URIFor(KindCode, key),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (c *Code) Apply(in *Code) bool {
	changed := c.applyBase(in.Base)
	if !RefEqual(c.Scheme, in.Scheme) {
		c.Scheme = in.Scheme
		changed = true
	}
	if c.ShortName != in.ShortName {
		c.ShortName = in.ShortName
		changed = true
	}
	if c.Order != in.Order {
		c.Order = in.Order
		changed = true
	}
	return changed
}
