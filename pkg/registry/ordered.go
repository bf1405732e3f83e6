package registry

// OrderedMap is an insertion-ordered map keyed by code value. It backs
// composite entities discovered while scanning a source: repeated rows
// for the same parent append to the same in-memory object instead of
// creating duplicates.
type OrderedMap[T any] struct {
	keys  []string
	items map[string]*T
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[T any]() *OrderedMap[T] {
	return &OrderedMap[T]{items: make(map[string]*T)}
}

// Get returns the item for a code value, or nil if absent.
func (m *OrderedMap[T]) Get(codeValue string) *T {
	return m.items[codeValue]
}

// GetOrCreate returns the item for a code value, constructing and
// registering it with create on first sight.
func (m *OrderedMap[T]) GetOrCreate(codeValue string, create func() *T) *T {
	if item, ok := m.items[codeValue]; ok {
		return item
	}
	item := create()
	m.items[codeValue] = item
	m.keys = append(m.keys, codeValue)
	return item
}

// Len returns the number of items.
func (m *OrderedMap[T]) Len() int {
	return len(m.keys)
}

// Values returns all items in insertion order.
func (m *OrderedMap[T]) Values() []*T {
	out := make([]*T, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.items[key])
	}
	return out
}
