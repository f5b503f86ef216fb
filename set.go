package idkit

import (
	"iter"
	"math/bits"

	"github.com/hupe1980/idkit/identifier"
)

// Set is a growable bitset over identifier indices: one bit per
// possible index, membership only.
//
// It follows the same growth policy as Map (geometric, grow-on-insert,
// no shrink) and the same ownership model (single owner, no internal
// locking). *Set satisfies traverse.Marker.
type Set[K any] struct {
	trait identifier.Trait[K]
	words []uint64
	count int
}

// NewSet creates an empty Set over the given identifier trait.
func NewSet[K any](trait identifier.Trait[K]) *Set[K] {
	return &Set[K]{trait: trait}
}

// NewSetWithCapacity creates an empty Set with room for indices below
// capacity.
func NewSetWithCapacity[K any](trait identifier.Trait[K], capacity int) *Set[K] {
	return &Set[K]{
		trait: trait,
		words: make([]uint64, (capacity+63)/64),
	}
}

// Trait returns the identifier trait this set was created with.
func (s *Set[K]) Trait() identifier.Trait[K] { return s.trait }

// Len returns the number of identifiers in the set.
func (s *Set[K]) Len() int { return s.count }

// IsEmpty returns true if the set is empty.
func (s *Set[K]) IsEmpty() bool { return s.count == 0 }

// Contains returns true if the identifier is in the set. Indices
// beyond the current capacity read as absent.
func (s *Set[K]) Contains(k K) bool {
	idx := s.trait.Index(k)
	word := int(idx >> 6)
	return word < len(s.words) && s.words[word]&(uint64(1)<<(idx&63)) != 0
}

// Insert adds the identifier to the set, growing the backing words if
// needed. It returns true if the identifier was newly added.
func (s *Set[K]) Insert(k K) bool {
	idx := s.trait.Index(k)
	word := int(idx >> 6)
	mask := uint64(1) << (idx & 63)

	if word >= len(s.words) {
		s.grow(word + 1)
	}
	if s.words[word]&mask != 0 {
		return false
	}
	s.words[word] |= mask
	s.count++
	return true
}

// Remove deletes the identifier from the set. It returns true if the
// identifier was present.
func (s *Set[K]) Remove(k K) bool {
	idx := s.trait.Index(k)
	word := int(idx >> 6)
	mask := uint64(1) << (idx & 63)

	if word >= len(s.words) || s.words[word]&mask == 0 {
		return false
	}
	s.words[word] &^= mask
	s.count--
	return true
}

// Clear removes all identifiers. The backing words are retained.
func (s *Set[K]) Clear() {
	clear(s.words)
	s.count = 0
}

// Clone returns a copy of the set.
func (s *Set[K]) Clone() *Set[K] {
	out := &Set[K]{
		trait: s.trait,
		words: make([]uint64, len(s.words)),
		count: s.count,
	}
	copy(out.words, s.words)
	return out
}

// UnionWith adds every identifier of other to s.
func (s *Set[K]) UnionWith(other *Set[K]) {
	if len(other.words) > len(s.words) {
		s.grow(len(other.words))
	}
	for i, w := range other.words {
		s.words[i] |= w
	}
	s.recount()
}

// IntersectWith keeps only identifiers present in both sets. Bits
// beyond the shorter set's capacity are treated as cleared.
func (s *Set[K]) IntersectWith(other *Set[K]) {
	n := min(len(s.words), len(other.words))
	for i := 0; i < n; i++ {
		s.words[i] &= other.words[i]
	}
	clear(s.words[n:])
	s.recount()
}

// DifferenceWith removes every identifier of other from s.
func (s *Set[K]) DifferenceWith(other *Set[K]) {
	n := min(len(s.words), len(other.words))
	for i := 0; i < n; i++ {
		s.words[i] &^= other.words[i]
	}
	s.recount()
}

// All returns a lazy, restartable iterator over the identifiers in
// ascending index order.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i, w := range s.words {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				w &= w - 1
				k, err := s.trait.FromIndex(uint64(i)<<6 | uint64(bit))
				if err != nil {
					continue
				}
				if !yield(k) {
					return
				}
			}
		}
	}
}

func (s *Set[K]) grow(newLen int) {
	newCap := len(s.words) * 2
	if newCap < newLen {
		newCap = newLen
	}
	words := make([]uint64, newCap)
	copy(words, s.words)
	s.words = words
}

func (s *Set[K]) recount() {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	s.count = n
}
