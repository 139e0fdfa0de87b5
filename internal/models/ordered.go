package models

// OrderedMap is a map that remembers insertion order.
// Setting an existing key replaces the value but keeps the key's original
// position. Not safe for concurrent use.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		values: make(map[K]V),
	}
}

// Set stores value under key and reports whether an existing value was overwritten
func (m *OrderedMap[K, V]) Set(key K, value V) bool {
	_, exists := m.values[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return exists
}

// Get returns the value stored under key
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Range calls fn for each entry in insertion order until fn returns false
func (m *OrderedMap[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}
