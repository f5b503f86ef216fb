package identifier

// UnsignedInt constrains the integer types usable with Of and NonMaxOf.
type UnsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Of returns a Trait for an unsigned integer type or newtype, with the
// type's full range valid. The identifier IS its index.
//
// This is the conformer a code generator would emit for a declaration
// like `type NodeID uint32`.
func Of[T UnsignedInt]() Trait[T] {
	return uintTrait[T]{max: uint64(^T(0))}
}

// NonMaxOf returns a niche-optimized Trait: the all-ones bit pattern is
// reserved as an out-of-band sentinel and excluded from the valid
// range. MaxIndex is one less than the type's natural bound, and
// FromIndex of the sentinel fails.
//
// Callers that encode "no value" as the sentinel must never pass it to
// Index; the sentinel is not a valid identifier.
func NonMaxOf[T UnsignedInt]() Trait[T] {
	return uintTrait[T]{max: uint64(^T(0)) - 1}
}

type uintTrait[T UnsignedInt] struct {
	max uint64
}

func (t uintTrait[T]) Index(k T) uint64 { return uint64(k) }

func (t uintTrait[T]) FromIndex(n uint64) (T, error) {
	if n > t.max {
		var zero T
		return zero, &ErrOutOfRange{Index: n, Max: t.max}
	}
	return T(n), nil
}

func (t uintTrait[T]) MaxIndex() uint64 { return t.max }
