package group

// orderedMap is a map that remembers insertion order. Keys() is the one
// canonical enumeration every derived sequence must follow.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{values: make(map[K]V)}
}

// Set adds or updates a key; the position of an existing key is kept.
func (om *orderedMap[K, V]) Set(key K, value V) {
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

func (om *orderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := om.values[key]
	return v, ok
}

func (om *orderedMap[K, V]) Has(key K) bool {
	_, ok := om.values[key]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (om *orderedMap[K, V]) Keys() []K {
	return append([]K(nil), om.keys...)
}

func (om *orderedMap[K, V]) Len() int { return len(om.keys) }
