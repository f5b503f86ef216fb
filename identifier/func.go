package identifier

// Func adapts a pair of conversion functions into a Trait. It is the
// seam external code generators target for user-defined types that are
// not integer newtypes.
//
// FromIndex bounds-checking is handled by the adapter: fromIndex is
// only invoked for indices within [0, maxIndex].
func Func[K any](index func(K) uint64, fromIndex func(uint64) (K, error), maxIndex uint64) Trait[K] {
	return funcTrait[K]{index: index, fromIndex: fromIndex, max: maxIndex}
}

type funcTrait[K any] struct {
	index     func(K) uint64
	fromIndex func(uint64) (K, error)
	max       uint64
}

func (t funcTrait[K]) Index(k K) uint64 { return t.index(k) }

func (t funcTrait[K]) FromIndex(n uint64) (K, error) {
	if n > t.max {
		var zero K
		return zero, &ErrOutOfRange{Index: n, Max: t.max}
	}
	return t.fromIndex(n)
}

func (t funcTrait[K]) MaxIndex() uint64 { return t.max }
