package registry

// BusinessID represents a business identifier record fetched from the
// remote company registry API. The natural key is the business id
// itself (seven digits, a dash, and a check digit), never padded.
type BusinessID struct {
	Base `yaml:",inline"`

	CompanyForm string `json:"companyForm,omitempty" yaml:"companyForm,omitempty"` // Legal form code, e.g. OY, OYJ
	DetailsURI  string `json:"detailsUri,omitempty" yaml:"detailsUri,omitempty"`   // Upstream per-company detail endpoint
}

// NewBusinessID creates a business id skeleton. The company name is
// stored as the Finnish label; the API carries a single name only.
func NewBusinessID(businessID string) (*BusinessID, error) {
	code, err := PadCode(KindBusinessID, businessID)
	if err != nil {
		return nil, err
	}
	return &BusinessID{Base: Base{
		CodeValue: code,
		Status:    StatusValid,
		URI:       URIFor(KindBusinessID, code),
		Labels:    Labels{},
	}}, nil
}

// Apply overwrites observable fields from in and reports whether any
// field differed.
func (b *BusinessID) Apply(in *BusinessID) bool {
	changed := b.applyBase(in.Base)
	if b.CompanyForm != in.CompanyForm {
		b.CompanyForm = in.CompanyForm
		changed = true
	}
	if b.DetailsURI != in.DetailsURI {
		b.DetailsURI = in.DetailsURI
		changed = true
	}
	return changed
}
