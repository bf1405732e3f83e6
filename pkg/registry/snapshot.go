package registry

// Snapshot is a read-only code value lookup for one entity kind, taken
// once at the start of an ingestion run. A run resolving references
// against a snapshot never observes partial writes from itself; the
// snapshot is only ever replaced wholesale between runs.
type Snapshot struct {
	kind   Kind
	byCode map[string]Ref
}

// NewSnapshot creates an empty snapshot for the given kind.
func NewSnapshot(kind Kind) *Snapshot {
	return &Snapshot{
		kind:   kind,
		byCode: make(map[string]Ref),
	}
}

// Kind returns the entity kind this snapshot indexes.
func (s *Snapshot) Kind() Kind {
	return s.kind
}

// Len returns the number of entities in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.byCode)
}

// Put records an entity while the snapshot is being built. Not safe for
// use once the run has started; snapshots are read-only from then on.
func (s *Snapshot) Put(codeValue, id string) {
	s.byCode[codeValue] = Ref{ID: id, CodeValue: codeValue}
}

// Resolve pads the raw foreign code to the snapshot kind's canonical
// width and looks it up. Resolution is deterministic: identical inputs
// always yield the same reference or consistently miss.
func (s *Snapshot) Resolve(raw string) (Ref, bool) {
	code, err := PadCode(s.kind, raw)
	if err != nil {
		return Ref{}, false
	}
	ref, ok := s.byCode[code]
	return ref, ok
}
