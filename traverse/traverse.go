// Package traverse provides generic graph walkers over
// identifier-keyed nodes.
//
// The walkers know nothing about idkit's concrete sets: they consume
// the Marker contract, which is deliberately narrow (membership
// insert, membership test, bulk reset). Both *idkit.Set and
// *idkit.SparseSet satisfy it.
package traverse

// Marker tracks visited identifiers during a traversal.
//
// Insert marks an identifier and reports whether it was newly marked.
// Clear resets the marker for reuse across traversals; the walkers
// never call it themselves, so a caller can accumulate marks over
// multiple runs (multi-source traversal) or reuse one marker's storage
// by clearing between runs.
type Marker[K any] interface {
	Insert(k K) bool
	Contains(k K) bool
	Clear()
}

// BFS walks the graph breadth-first from start. neighbors returns the
// successors of a node; visit is called once per reachable node in
// breadth-first order and stops the walk by returning false.
//
// Nodes already marked in visited are skipped, start included.
func BFS[K any](start K, neighbors func(K) []K, visited Marker[K], visit func(K) bool) {
	if !visited.Insert(start) {
		return
	}

	queue := []K{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if !visit(node) {
			return
		}
		for _, next := range neighbors(node) {
			if visited.Insert(next) {
				queue = append(queue, next)
			}
		}
	}
}

// DFS walks the graph depth-first from start, preorder. Semantics
// otherwise match BFS.
func DFS[K any](start K, neighbors func(K) []K, visited Marker[K], visit func(K) bool) {
	if visited.Contains(start) {
		return
	}

	stack := []K{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visited.Insert(node) {
			continue
		}
		if !visit(node) {
			return
		}

		// Push in reverse so the first neighbor is visited first.
		next := neighbors(node)
		for i := len(next) - 1; i >= 0; i-- {
			if !visited.Contains(next[i]) {
				stack = append(stack, next[i])
			}
		}
	}
}
