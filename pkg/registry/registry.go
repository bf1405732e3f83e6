// Package registry defines the canonical entity model for national
// reference data: administrative regions, magistrates, health care
// districts, electoral districts, municipalities, postal codes, street
// addresses, business identifiers, and code list registries.
//
// Every entity carries an opaque immutable id, a fixed-width natural key
// (the code value), a lifecycle status, a provenance source tag,
// per-language labels, a deterministically derived URI, and created and
// modified timestamps. Relations between entities are stored as
// resolved-once foreign keys rather than live object pointers.
package registry

// Kind identifies one registry entity type for compile-time safety.
type Kind string

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Registry entity kinds.
const (
	KindRegion             Kind = "region"
	KindMagistrate         Kind = "magistrate"
	KindHealthCareDistrict Kind = "healthcaredistrict"
	KindElectoralDistrict  Kind = "electoraldistrict"
	KindMunicipality       Kind = "municipality"
	KindPostalCode         Kind = "postalcode"
	KindStreetAddress      Kind = "streetaddress"
	KindBusinessID         Kind = "businessid"
	KindCodeRegistry       Kind = "coderegistry"
	KindCodeScheme         Kind = "codescheme"
	KindCode               Kind = "code"
)

// Languages recognized in label columns. Finnish is always present in
// upstream sources; Swedish and English are optional.
const (
	LanguageFinnish = "fi"
	LanguageSwedish = "se"
	LanguageEnglish = "en"
)
