package registry

import "strings"

// Labels maps a language code to a display label. Insertion order is
// irrelevant; equality is by content.
type Labels map[string]string

// Set stores a label after trimming whitespace. Empty values are
// dropped so that absent optional languages never appear as keys.
func (l Labels) Set(language, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	l[strings.ToLower(language)] = value
}

// Get returns the label for a language, or the empty string.
func (l Labels) Get(language string) string {
	return l[strings.ToLower(language)]
}

// Equal reports whether two label maps hold identical content.
func (l Labels) Equal(other Labels) bool {
	if len(l) != len(other) {
		return false
	}
	for lang, v := range l {
		if other[lang] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the label map.
func (l Labels) Clone() Labels {
	if l == nil {
		return nil
	}
	out := make(Labels, len(l))
	for lang, v := range l {
		out[lang] = v
	}
	return out
}
