package registry

// uriBase is the root under which every canonical entity URI lives.
// URIs are derived, never stored upstream, so the base is a fixed
// constant rather than configuration.
const uriBase = "https://registry.refcanon.io"

// URIFor derives the canonical URI for an entity deterministically from
// its kind and code value. The same inputs always produce the same URI.
func URIFor(kind Kind, codeValue string) string {
	return uriBase + "/" + kind.String() + "/" + codeValue
}
