// Package idalloc issues fresh identifiers and recycles released ones.
//
// An allocator owns a monotonically increasing high-water mark (the
// smallest index never yet issued) and a free-list of released indices
// below it. Every index is in exactly one of three states: never
// issued, live, or free. The allocator is pure index bookkeeping; it
// holds no payloads and has no visibility into whether an issued
// identifier is still referenced elsewhere.
//
// Allocator is single-owner like the idkit collections. For issuing
// fresh (never-reused) identifiers from multiple goroutines without a
// lock, see AtomicAllocator.
package idalloc

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/idkit/identifier"
)

// ErrExhausted is returned by Allocate when advancing the high-water
// mark would exceed the identifier type's maximum valid index. The
// caller can recover by releasing identifiers or widening the type;
// the allocator itself cannot.
var ErrExhausted = errors.New("idalloc: identifier space exhausted")

// Allocator hands out identifiers and recycles released ones via a
// free-list.
type Allocator[K any] struct {
	trait identifier.Trait[K]
	start uint64
	next  uint64 // high-water mark: smallest index never issued
	// exhausted is set once the last valid index has been issued: next
	// saturates there instead of wrapping past the trait's maximum.
	exhausted bool
	free      []uint64 // released indices below next, popped LIFO

	freeSet *roaring64.Bitmap // non-nil only with Options.ReleaseChecks
}

// New creates an Allocator over the given identifier trait.
func New[K any](trait identifier.Trait[K], optFns ...func(o *Options)) *Allocator[K] {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Allocator[K]{
		trait: trait,
		start: opts.Start,
		next:  opts.Start,
	}
	if opts.ReleaseChecks {
		a.freeSet = roaring64.New()
	}

	return a
}

// Allocate returns an unused identifier: a recycled one if the
// free-list is non-empty, otherwise a fresh one from the high-water
// mark. The free-list is popped LIFO so recently released slots are
// reused first, but pop order is not an observable guarantee.
func (a *Allocator[K]) Allocate() (K, error) {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		if a.freeSet != nil {
			a.freeSet.Remove(idx)
		}
		return a.trait.FromIndex(idx)
	}

	max := a.trait.MaxIndex()
	if a.exhausted || a.next > max {
		var zero K
		return zero, fmt.Errorf("%w: no fresh index left below max %d", ErrExhausted, max)
	}

	idx := a.next
	if idx == max {
		// Advancing past the last valid index would wrap the mark.
		a.exhausted = true
	} else {
		a.next++
	}

	return a.trait.FromIndex(idx)
}

// Release moves a live identifier to the free-list, making it eligible
// for reuse. Releasing an identifier that is already free or was never
// issued is a caller contract violation: it is unchecked by default
// and panics when the allocator was built with WithReleaseChecks.
func (a *Allocator[K]) Release(k K) {
	idx := a.trait.Index(k)

	if a.freeSet != nil {
		if !a.everIssued(idx) {
			panic(fmt.Sprintf("idalloc: release of unissued index %d (high-water mark %d)", idx, a.next))
		}
		if !a.freeSet.CheckedAdd(idx) {
			panic(fmt.Sprintf("idalloc: double release of index %d", idx))
		}
	}

	a.free = append(a.free, idx)
}

// everIssued reports whether the fresh path has ever handed out idx.
func (a *Allocator[K]) everIssued(idx uint64) bool {
	if idx < a.start {
		return false
	}
	if idx < a.next {
		return true
	}
	return a.exhausted && idx == a.next
}

// HighWaterMark returns the smallest index never yet issued. Once the
// last valid index has been issued there is no such index and the mark
// saturates at trait.MaxIndex().
func (a *Allocator[K]) HighWaterMark() uint64 { return a.next }

// FreeCount returns the number of released indices awaiting reuse.
func (a *Allocator[K]) FreeCount() int { return len(a.free) }

// issued returns how many indices the fresh path has handed out.
func (a *Allocator[K]) issued() uint64 {
	n := a.next - a.start
	if a.exhausted {
		n++
	}
	return n
}

// Live returns the number of currently issued identifiers. Issued
// indices partition exactly into live ones and the free-list.
func (a *Allocator[K]) Live() int {
	return int(a.issued()) - len(a.free)
}
