// Package idkit provides dense, array-backed collections keyed by
// small integer identifiers, plus an allocator that mints and recycles
// those identifiers.
//
// It targets programs that represent entities (graph nodes, interned
// symbols, slot handles) as small integers and want O(1) lookup and
// update without hashing, while still reusing freed identifiers safely.
//
// # Quick Start
//
//	type NodeID uint32
//
//	trait := identifier.Of[NodeID]()
//	alloc := idalloc.New(trait)
//	names := idkit.NewMap[NodeID, string](trait)
//
//	id, _ := alloc.Allocate()
//	names.Insert(id, "root")
//
//	name, ok := names.Get(id)   // "root", true
//	names.Remove(id)
//	alloc.Release(id)           // id is eligible for reuse
//
// # Collections
//
//   - Map: growable slot array, one slot per possible index. O(1)
//     insert/remove/get, ascending-order iteration.
//   - Set: word-array bitset, membership only. Same growth policy,
//     bit-wise union/intersection/difference.
//   - SparseSet: roaring-backed compressed set for 32-bit index
//     spaces, with portable serialization.
//
// # Concurrency
//
// All collections are single-owner and perform no internal locking.
// The only concurrent building block is idalloc.AtomicAllocator, whose
// fresh-identifier path is lock-free; everything else requires
// external synchronization when shared.
//
// # Collaborators
//
// Snapshot serialization lives in package persist, generic graph
// traversal over the narrow marker contract in package traverse, and
// the identifier bijection itself in package identifier.
package idkit
