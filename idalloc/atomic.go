package idalloc

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/idkit/identifier"
)

// AtomicAllocator issues fresh, never-reused identifiers from multiple
// goroutines without external locking. Allocate is lock-free: a CAS
// loop on the high-water mark.
//
// There is deliberately no free-list here. Recycling requires
// synchronizing a shared pool, which would need a lock-free stack;
// callers that want reuse should use Allocator behind their own mutex
// instead. Identifiers issued concurrently are pairwise distinct, but
// no ordering holds between two concurrent callers' identifiers.
type AtomicAllocator[K any] struct {
	trait identifier.Trait[K]
	next  atomic.Uint64
	// maxIssued claims the last valid index. The counter saturates at
	// trait.MaxIndex() instead of wrapping past it, so that final index
	// is handed out through this flag rather than by advancing next.
	maxIssued atomic.Bool
}

// NewAtomic creates an AtomicAllocator over the given identifier
// trait. Only the WithStart option applies.
func NewAtomic[K any](trait identifier.Trait[K], optFns ...func(o *Options)) *AtomicAllocator[K] {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &AtomicAllocator[K]{trait: trait}
	a.next.Store(opts.Start)

	return a
}

// Allocate returns a fresh identifier, never a recycled one. It
// returns ErrExhausted once the high-water mark passes the trait's
// maximum valid index.
func (a *AtomicAllocator[K]) Allocate() (K, error) {
	max := a.trait.MaxIndex()
	for {
		cur := a.next.Load()
		if cur > max {
			var zero K
			return zero, fmt.Errorf("%w: start index %d exceeds max %d", ErrExhausted, cur, max)
		}
		if cur == max {
			if a.maxIssued.CompareAndSwap(false, true) {
				return a.trait.FromIndex(max)
			}
			var zero K
			return zero, fmt.Errorf("%w: no fresh index left below max %d", ErrExhausted, max)
		}
		if a.next.CompareAndSwap(cur, cur+1) {
			return a.trait.FromIndex(cur)
		}
	}
}

// HighWaterMark returns the smallest index never yet issued. Once the
// last valid index has been issued there is no such index and the mark
// saturates at trait.MaxIndex().
func (a *AtomicAllocator[K]) HighWaterMark() uint64 { return a.next.Load() }
