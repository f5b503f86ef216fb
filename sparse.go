package idkit

import (
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/idkit/identifier"
)

// SparseSet is a compressed membership set backed by a 32-bit roaring
// bitmap. Compared to Set it trades per-operation constant factors for
// much lower memory on sparse or clustered index distributions, and it
// carries roaring's portable serialization.
//
// *SparseSet satisfies traverse.Marker.
type SparseSet[K any] struct {
	trait identifier.Trait[K]
	rb    *roaring.Bitmap
}

// NewSparseSet creates an empty SparseSet. The trait's index space
// must fit in 32 bits.
func NewSparseSet[K any](trait identifier.Trait[K]) (*SparseSet[K], error) {
	if trait.MaxIndex() > math.MaxUint32 {
		return nil, fmt.Errorf("idkit: sparse set requires a 32-bit index space, trait max is %d", trait.MaxIndex())
	}
	return &SparseSet[K]{
		trait: trait,
		rb:    roaring.New(),
	}, nil
}

// Trait returns the identifier trait this set was created with.
func (s *SparseSet[K]) Trait() identifier.Trait[K] { return s.trait }

// Len returns the number of identifiers in the set.
func (s *SparseSet[K]) Len() int {
	return int(s.rb.GetCardinality())
}

// Cardinality returns the number of identifiers in the set as the
// underlying bitmap reports it, without the int conversion of Len.
func (s *SparseSet[K]) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// IsEmpty returns true if the set is empty.
func (s *SparseSet[K]) IsEmpty() bool { return s.rb.IsEmpty() }

// Contains returns true if the identifier is in the set.
func (s *SparseSet[K]) Contains(k K) bool {
	return s.rb.Contains(uint32(s.trait.Index(k)))
}

// Insert adds the identifier to the set. It returns true if the
// identifier was newly added.
func (s *SparseSet[K]) Insert(k K) bool {
	return s.rb.CheckedAdd(uint32(s.trait.Index(k)))
}

// Remove deletes the identifier from the set. It returns true if the
// identifier was present.
func (s *SparseSet[K]) Remove(k K) bool {
	return s.rb.CheckedRemove(uint32(s.trait.Index(k)))
}

// Clear removes all identifiers.
func (s *SparseSet[K]) Clear() {
	s.rb.Clear()
}

// Clone returns a deep copy of the set.
func (s *SparseSet[K]) Clone() *SparseSet[K] {
	return &SparseSet[K]{
		trait: s.trait,
		rb:    s.rb.Clone(),
	}
}

// UnionWith adds every identifier of other to s.
func (s *SparseSet[K]) UnionWith(other *SparseSet[K]) {
	s.rb.Or(other.rb)
}

// IntersectWith keeps only identifiers present in both sets.
func (s *SparseSet[K]) IntersectWith(other *SparseSet[K]) {
	s.rb.And(other.rb)
}

// DifferenceWith removes every identifier of other from s.
func (s *SparseSet[K]) DifferenceWith(other *SparseSet[K]) {
	s.rb.AndNot(other.rb)
}

// All returns a lazy iterator over the identifiers in ascending index
// order.
func (s *SparseSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			k, err := s.trait.FromIndex(uint64(it.Next()))
			if err != nil {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// WriteTo serializes the set in roaring's portable format.
func (s *SparseSet[K]) WriteTo(w io.Writer) (int64, error) {
	return s.rb.WriteTo(w)
}

// ReadFrom replaces the set's contents with a bitmap previously
// written by WriteTo.
func (s *SparseSet[K]) ReadFrom(r io.Reader) (int64, error) {
	return s.rb.ReadFrom(r)
}
