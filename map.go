package idkit

import (
	"iter"

	"github.com/hupe1980/idkit/identifier"
)

type slot[V any] struct {
	value    V
	occupied bool
}

// Map is a dense map of identifier keys to values, backed by a slot
// array indexed directly by the key's integer index.
//
// Space is O(largest index ever inserted): the backing array grows
// geometrically on insert and never shrinks. All operations are O(1)
// except iteration and bulk helpers. A Map is exclusively owned by one
// logical owner; it performs no internal locking.
type Map[K any, V any] struct {
	trait identifier.Trait[K]
	slots []slot[V]
	count int
}

// NewMap creates an empty Map over the given identifier trait.
func NewMap[K any, V any](trait identifier.Trait[K]) *Map[K, V] {
	return &Map[K, V]{trait: trait}
}

// NewMapWithCapacity creates an empty Map with room for indices below
// capacity. Because storage is index-addressed, capacity hints at the
// maximum index, not the element count.
func NewMapWithCapacity[K any, V any](trait identifier.Trait[K], capacity int) *Map[K, V] {
	return &Map[K, V]{
		trait: trait,
		slots: make([]slot[V], capacity),
	}
}

// Trait returns the identifier trait this map was created with.
func (m *Map[K, V]) Trait() identifier.Trait[K] { return m.trait }

// Len returns the number of values in the map.
func (m *Map[K, V]) Len() int { return m.count }

// IsEmpty returns true if the map holds no values.
func (m *Map[K, V]) IsEmpty() bool { return m.count == 0 }

// Contains returns true if a value is present for the given key.
func (m *Map[K, V]) Contains(k K) bool {
	idx := m.trait.Index(k)
	return idx < uint64(len(m.slots)) && m.slots[idx].occupied
}

// Get returns the value for the given key. Keys beyond the current
// capacity are absent, not an error.
func (m *Map[K, V]) Get(k K) (V, bool) {
	idx := m.trait.Index(k)
	if idx >= uint64(len(m.slots)) || !m.slots[idx].occupied {
		var zero V
		return zero, false
	}
	return m.slots[idx].value, true
}

// GetRef returns a pointer to the value for in-place mutation, or nil
// if the key is absent. The pointer is invalidated by the next insert
// that grows the map.
func (m *Map[K, V]) GetRef(k K) *V {
	idx := m.trait.Index(k)
	if idx >= uint64(len(m.slots)) || !m.slots[idx].occupied {
		return nil
	}
	return &m.slots[idx].value
}

// Insert stores a value under the given key, growing the backing array
// if needed. It returns the previous value and true if the slot was
// occupied; the live count is unchanged in that case.
func (m *Map[K, V]) Insert(k K, v V) (old V, replaced bool) {
	idx := int(m.trait.Index(k))
	if idx >= len(m.slots) {
		m.grow(idx + 1)
	}
	s := &m.slots[idx]
	if s.occupied {
		old = s.value
		s.value = v
		return old, true
	}
	s.value = v
	s.occupied = true
	m.count++
	return old, false
}

// Remove deletes the value for the given key and returns it. Removing
// an absent key is a no-op returning false. The slot stays allocated;
// the map never compacts.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	idx := m.trait.Index(k)
	if idx >= uint64(len(m.slots)) || !m.slots[idx].occupied {
		var zero V
		return zero, false
	}
	s := &m.slots[idx]
	v := s.value
	var zero V
	s.value = zero
	s.occupied = false
	m.count--
	return v, true
}

// GetOrInsert returns a pointer to the value for the given key,
// inserting def first if the key is absent. Single traversal.
func (m *Map[K, V]) GetOrInsert(k K, def V) *V {
	return m.GetOrInsertFunc(k, func() V { return def })
}

// GetOrInsertFunc is GetOrInsert with lazy default construction.
func (m *Map[K, V]) GetOrInsertFunc(k K, fn func() V) *V {
	idx := int(m.trait.Index(k))
	if idx >= len(m.slots) {
		m.grow(idx + 1)
	}
	s := &m.slots[idx]
	if !s.occupied {
		s.value = fn()
		s.occupied = true
		m.count++
	}
	return &s.value
}

// Clear removes all values. The backing array is retained for reuse.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.count = 0
}

// Retain keeps only the entries for which pred returns true.
func (m *Map[K, V]) Retain(pred func(k K, v V) bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.occupied {
			continue
		}
		k, err := m.trait.FromIndex(uint64(i))
		if err != nil {
			continue
		}
		if !pred(k, s.value) {
			var zero V
			s.value = zero
			s.occupied = false
			m.count--
		}
	}
}

// EnsureCapacity grows the backing array so that indices below
// capacity can be inserted without further allocation.
func (m *Map[K, V]) EnsureCapacity(capacity int) {
	if capacity > len(m.slots) {
		m.grow(capacity)
	}
}

// Clone returns a deep copy of the map structure. Values are copied
// with assignment.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := &Map[K, V]{
		trait: m.trait,
		slots: make([]slot[V], len(m.slots)),
		count: m.count,
	}
	copy(out.slots, m.slots)
	return out
}

// MaxKey returns the largest key present in the map.
func (m *Map[K, V]) MaxKey() (K, bool) {
	for i := len(m.slots) - 1; i >= 0; i-- {
		if m.slots[i].occupied {
			k, err := m.trait.FromIndex(uint64(i))
			if err != nil {
				break
			}
			return k, true
		}
	}
	var zero K
	return zero, false
}

// All returns a lazy, restartable iterator over (key, value) pairs in
// ascending index order, skipping empty slots.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.slots {
			if !m.slots[i].occupied {
				continue
			}
			k, err := m.trait.FromIndex(uint64(i))
			if err != nil {
				continue
			}
			if !yield(k, m.slots[i].value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in ascending index order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values in ascending key order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// grow extends the slot array to hold at least newLen slots. New slots
// are zeroed, i.e. empty.
func (m *Map[K, V]) grow(newLen int) {
	newCap := len(m.slots) * 2
	if newCap < newLen {
		newCap = newLen
	}
	slots := make([]slot[V], newCap)
	copy(slots, m.slots)
	m.slots = slots
}

// MapEqual reports whether two maps hold the same (key, value) pairs,
// ignoring capacity.
func MapEqual[K any, V comparable](a, b *Map[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, v := range a.All() {
		other, ok := b.Get(k)
		if !ok || other != v {
			return false
		}
	}
	return true
}
