// Package hmap is a small mutable hash map keyed by an explicit
// immutable.Hasher (e.g. one from internal/hashutil) rather than Go's
// built-in comparable-key maps. It exists
// so we can key maps by pointer identity (e.g. *ir.Instruction) without the
// overhead of the persistent maps used for Environment values, and without
// requiring K to satisfy Go's native `comparable` constraint.
//
// Hash collisions are resolved with a short linked list per bucket.
package hmap

import "github.com/benbjohnson/immutable"

type node[K, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

// Map is a mutable hash map from K to V, keyed via an explicit Hasher.
type Map[K, V any] struct {
	hasher immutable.Hasher[K]
	mp     map[uint32]*node[K, V]
	size   int
}

// NewMap creates an empty Map using the given hasher for K.
func NewMap[V, K any](hasher immutable.Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		hasher: hasher,
		mp:     make(map[uint32]*node[K, V]),
	}
}

// Set inserts or overwrites the binding for key.
func (m *Map[K, V]) Set(key K, value V) {
	h := m.hasher.Hash(key)
	head, found := m.mp[h]
	if !found {
		m.mp[h] = &node[K, V]{key, value, nil}
		m.size++
		return
	}
	for n := head; ; n = n.next {
		if m.hasher.Equal(key, n.key) {
			n.value = value
			return
		}
		if n.next == nil {
			n.next = &node[K, V]{key, value, nil}
			m.size++
			return
		}
	}
}

// GetOk retrieves the value bound to key, and whether it was found.
func (m *Map[K, V]) GetOk(key K) (res V, ok bool) {
	for n := m.mp[m.hasher.Hash(key)]; n != nil; n = n.next {
		if m.hasher.Equal(key, n.key) {
			return n.value, true
		}
	}
	return
}

// Get retrieves the value bound to key, or the zero value if absent.
func (m *Map[K, V]) Get(key K) V {
	v, _ := m.GetOk(key)
	return v
}

// Len reports the number of bindings currently stored.
func (m *Map[K, V]) Len() int {
	return m.size
}
