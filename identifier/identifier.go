// Package identifier defines the bijection between a domain type and a
// bounded, dense integer index space.
//
// Every container in idkit is written once, generically, against a
// Trait instead of a concrete integer type. A Trait maps identifiers to
// indices and back; the two conversions must be mutual inverses over
// [0, MaxIndex()]. Plain unsigned integers and their newtypes are
// covered by Of, niche-optimized variants (all-ones reserved as a
// sentinel) by NonMaxOf, and arbitrary domain types by Func.
package identifier

import "fmt"

// Trait converts identifiers of type K to dense indices and back.
//
// Implementations must be pure and safe for concurrent use. Index must
// succeed for every valid identifier; FromIndex must fail with
// *ErrOutOfRange for any index above MaxIndex and must never wrap or
// truncate.
type Trait[K any] interface {
	// Index returns the dense index of a valid identifier.
	Index(k K) uint64

	// FromIndex returns the identifier for the given index.
	FromIndex(n uint64) (K, error)

	// MaxIndex returns the largest valid index, inclusive.
	MaxIndex() uint64
}

// ErrOutOfRange indicates an index outside the valid range of a Trait.
type ErrOutOfRange struct {
	Index uint64
	Max   uint64
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("identifier: index %d out of range (max %d)", e.Index, e.Max)
}
