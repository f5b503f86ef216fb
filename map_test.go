package idkit

import (
	"testing"

	"github.com/hupe1980/idkit/identifier"
)

type nodeID uint32

var nodeTrait = identifier.Of[nodeID]()

func TestMap_InsertGet(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)

	m.Insert(0, "a")
	m.Insert(5, "b")

	if m.Len() != 2 {
		t.Fatalf("expected len 2, got %d", m.Len())
	}
	if v, ok := m.Get(0); !ok || v != "a" {
		t.Fatalf("expected (a, true), got (%q, %v)", v, ok)
	}
	if v, ok := m.Get(5); !ok || v != "b" {
		t.Fatalf("expected (b, true), got (%q, %v)", v, ok)
	}
	if _, ok := m.Get(3); ok {
		t.Fatalf("expected key 3 to be absent")
	}
	// Beyond current capacity reads as absent, not an error.
	if _, ok := m.Get(1 << 20); ok {
		t.Fatalf("expected far key to be absent")
	}
}

func TestMap_IterationOrder(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)
	m.Insert(5, "b")
	m.Insert(0, "a")

	var keys []nodeID
	var values []string
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}

	if len(keys) != 2 || keys[0] != 0 || keys[1] != 5 {
		t.Fatalf("expected keys [0 5], got %v", keys)
	}
	if values[0] != "a" || values[1] != "b" {
		t.Fatalf("expected values [a b], got %v", values)
	}

	// Iterators are restartable.
	n := 0
	for range m.Keys() {
		n++
	}
	for range m.Keys() {
		n++
	}
	if n != 4 {
		t.Fatalf("expected 4 yields over two passes, got %d", n)
	}
}

func TestMap_InsertOverwrite(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)

	if _, replaced := m.Insert(3, "x"); replaced {
		t.Fatalf("expected fresh insert")
	}
	old, replaced := m.Insert(3, "y")
	if !replaced || old != "x" {
		t.Fatalf("expected (x, true), got (%q, %v)", old, replaced)
	}
	if m.Len() != 1 {
		t.Fatalf("expected len 1 after overwrite, got %d", m.Len())
	}
}

func TestMap_RemoveIdempotent(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)
	m.Insert(7, "x")

	if v, ok := m.Remove(7); !ok || v != "x" {
		t.Fatalf("expected (x, true), got (%q, %v)", v, ok)
	}
	if _, ok := m.Remove(7); ok {
		t.Fatalf("expected second remove to be a no-op")
	}
	if _, ok := m.Remove(100); ok {
		t.Fatalf("expected remove of never-present key to be a no-op")
	}
	if m.Len() != 0 {
		t.Fatalf("expected len 0, got %d", m.Len())
	}
}

func TestMap_InsertRemoveCycle(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)

	for i := 0; i < 10; i++ {
		m.Insert(4, "v")
		if v, ok := m.Remove(4); !ok || v != "v" {
			t.Fatalf("cycle %d: expected (v, true), got (%q, %v)", i, v, ok)
		}
		if _, ok := m.Get(4); ok {
			t.Fatalf("cycle %d: stale value after remove", i)
		}
	}
}

func TestMap_Boundaries(t *testing.T) {
	trait := identifier.NonMaxOf[uint8]()
	m := NewMap[uint8, int](trait)

	// Index 0 and the maximum valid index insert without special cases.
	m.Insert(0, 10)
	m.Insert(uint8(trait.MaxIndex()), 20)

	if v, ok := m.Get(0); !ok || v != 10 {
		t.Fatalf("expected 10 at index 0")
	}
	if v, ok := m.Get(254); !ok || v != 20 {
		t.Fatalf("expected 20 at max index")
	}
}

func TestMap_GetOrInsert(t *testing.T) {
	m := NewMap[nodeID, int](nodeTrait)

	p := m.GetOrInsert(9, 1)
	*p += 10
	if v, _ := m.Get(9); v != 11 {
		t.Fatalf("expected 11, got %d", v)
	}

	// Occupied slot: default is not applied.
	called := false
	m.GetOrInsertFunc(9, func() int {
		called = true
		return 99
	})
	if called {
		t.Fatalf("expected default fn to be skipped for occupied slot")
	}
	if m.Len() != 1 {
		t.Fatalf("expected len 1, got %d", m.Len())
	}
}

func TestMap_GetRef(t *testing.T) {
	m := NewMap[nodeID, int](nodeTrait)
	m.Insert(2, 5)

	if p := m.GetRef(3); p != nil {
		t.Fatalf("expected nil for absent key")
	}
	*m.GetRef(2) = 7
	if v, _ := m.Get(2); v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

func TestMap_ClearRetainsStorage(t *testing.T) {
	m := NewMapWithCapacity[nodeID, string](nodeTrait, 64)
	m.Insert(1, "a")
	m.Insert(2, "b")

	m.Clear()
	if m.Len() != 0 || !m.IsEmpty() {
		t.Fatalf("expected empty map after clear")
	}
	if _, ok := m.Get(1); ok {
		t.Fatalf("expected key 1 gone after clear")
	}

	m.Insert(1, "c")
	if v, _ := m.Get(1); v != "c" {
		t.Fatalf("expected c after re-insert")
	}
}

func TestMap_Retain(t *testing.T) {
	m := NewMap[nodeID, int](nodeTrait)
	for i := nodeID(0); i < 8; i++ {
		m.Insert(i, int(i)*10)
	}

	m.Retain(func(k nodeID, v int) bool { return k%2 == 0 })

	if m.Len() != 4 {
		t.Fatalf("expected len 4, got %d", m.Len())
	}
	var keys []nodeID
	for k := range m.Keys() {
		keys = append(keys, k)
	}
	for i, want := range []nodeID{0, 2, 4, 6} {
		if keys[i] != want {
			t.Fatalf("expected keys [0 2 4 6], got %v", keys)
		}
	}
}

func TestMap_CloneAndEqual(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)
	m.Insert(1, "a")
	m.Insert(9, "b")

	c := m.Clone()
	if !MapEqual(m, c) {
		t.Fatalf("expected clone to equal original")
	}

	c.Insert(9, "z")
	if MapEqual(m, c) {
		t.Fatalf("expected inequality after mutation")
	}
	if v, _ := m.Get(9); v != "b" {
		t.Fatalf("clone mutation leaked into original")
	}

	// Same contents, different capacities: still equal.
	big := NewMapWithCapacity[nodeID, string](nodeTrait, 1024)
	big.Insert(1, "a")
	big.Insert(9, "b")
	if !MapEqual(m, big) {
		t.Fatalf("expected equality to ignore capacity")
	}
}

func TestMap_MaxKey(t *testing.T) {
	m := NewMap[nodeID, string](nodeTrait)

	if _, ok := m.MaxKey(); ok {
		t.Fatalf("expected no max key on empty map")
	}
	m.Insert(3, "a")
	m.Insert(42, "b")
	if k, ok := m.MaxKey(); !ok || k != 42 {
		t.Fatalf("expected max key 42, got (%d, %v)", k, ok)
	}
	m.Remove(42)
	if k, _ := m.MaxKey(); k != 3 {
		t.Fatalf("expected max key 3 after remove, got %d", k)
	}
}

func TestMap_EnsureCapacity(t *testing.T) {
	m := NewMap[nodeID, int](nodeTrait)
	m.EnsureCapacity(100)
	m.Insert(99, 1)
	if v, _ := m.Get(99); v != 1 {
		t.Fatalf("expected 1 at index 99")
	}
}
