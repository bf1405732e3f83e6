package registry

import (
	"time"

	"github.com/agentstation/utc"
)

// Base holds the attributes shared by every registry entity.
type Base struct {
	ID        string     `json:"id" yaml:"id"`                                   // Opaque identifier, generated once at creation
	CodeValue string     `json:"codeValue" yaml:"codeValue"`                     // Fixed-width natural key, unique within the dataset
	Status    Status     `json:"status" yaml:"status"`                           // Source-declared lifecycle state
	Source    string     `json:"source" yaml:"source"`                           // Provenance tag of the upstream feed
	URI       string     `json:"uri" yaml:"uri"`                                 // Derived deterministically from kind + code value
	Labels    Labels     `json:"prefLabel,omitempty" yaml:"prefLabel,omitempty"` // Language -> display label
	StartDate *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"` // Validity start, optional
	EndDate   *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`     // Validity end, optional
	Created   utc.Time   `json:"created" yaml:"created"`                         // Set once at creation, immutable
	Modified  utc.Time   `json:"modified" yaml:"modified"`                       // Advanced only when a field-level diff is detected
}

// Key returns the natural key of the entity.
func (b *Base) Key() string {
	return b.CodeValue
}

// Stamp assigns identity to a freshly created entity. The id and the
// created timestamp never change afterwards.
func (b *Base) Stamp(id string, now utc.Time) {
	b.ID = id
	b.Created = now
	b.Modified = now
}

// Touch advances the modified timestamp. Called only when at least one
// observable field changed.
func (b *Base) Touch(now utc.Time) {
	b.Modified = now
}

// applyBase overwrites the shared observable fields from in and reports
// whether any of them differed. Identity and timestamps are untouched.
func (b *Base) applyBase(in Base) bool {
	changed := false
	if b.Status != in.Status {
		b.Status = in.Status
		changed = true
	}
	if b.Source != in.Source {
		b.Source = in.Source
		changed = true
	}
	if b.URI != in.URI {
		b.URI = in.URI
		changed = true
	}
	if !b.Labels.Equal(in.Labels) {
		b.Labels = in.Labels.Clone()
		changed = true
	}
	if !timeEqual(b.StartDate, in.StartDate) {
		b.StartDate = in.StartDate
		changed = true
	}
	if !timeEqual(b.EndDate, in.EndDate) {
		b.EndDate = in.EndDate
		changed = true
	}
	return changed
}

// Ref is a resolved-once foreign key to another entity. It records both
// the target's natural key and its opaque id so that consumers never
// need a live join to follow the link.
type Ref struct {
	ID        string `json:"id" yaml:"id"`               // Target entity id
	CodeValue string `json:"codeValue" yaml:"codeValue"` // Target natural key
}

// RefEqual reports whether two optional references point at the same
// entity. Two nil references are equal.
func RefEqual(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.CodeValue == b.CodeValue
}

// refsEqual compares two reference slices element-wise.
func refsEqual(a, b []Ref) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// timeEqual compares two optional timestamps by instant.
func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// MemberList holds references to member municipalities for composite
// district entities. Membership additions are de-duplicated by the
// member's natural key.
type MemberList struct {
	Members []Ref `json:"members,omitempty" yaml:"members,omitempty"`

	seen map[string]struct{}
}

// AddMember appends a member reference unless one with the same code
// value is already present. Reports whether the member was added.
func (m *MemberList) AddMember(ref Ref) bool {
	if m.seen == nil {
		m.seen = make(map[string]struct{}, len(m.Members))
		for _, existing := range m.Members {
			m.seen[existing.CodeValue] = struct{}{}
		}
	}
	if _, ok := m.seen[ref.CodeValue]; ok {
		return false
	}
	m.seen[ref.CodeValue] = struct{}{}
	m.Members = append(m.Members, ref)
	return true
}

// membersEqual reports whether two member lists hold the same
// references in the same order.
func (m *MemberList) membersEqual(other MemberList) bool {
	return refsEqual(m.Members, other.Members)
}
