package idkit

import (
	"bytes"
	"testing"

	"github.com/hupe1980/idkit/identifier"
)

func TestSparseSet_Basics(t *testing.T) {
	s, err := NewSparseSet[nodeID](nodeTrait)
	if err != nil {
		t.Fatalf("NewSparseSet failed: %v", err)
	}

	if !s.Insert(2) || s.Insert(2) {
		t.Fatalf("expected insert semantics to match Set")
	}
	s.Insert(7)

	if !s.Contains(7) || s.Contains(9) {
		t.Fatalf("unexpected membership")
	}
	if s.Len() != 2 {
		t.Fatalf("expected len 2, got %d", s.Len())
	}
	if s.Cardinality() != 2 {
		t.Fatalf("expected cardinality 2, got %d", s.Cardinality())
	}
	if !s.Remove(2) || s.Remove(2) {
		t.Fatalf("expected remove semantics to match Set")
	}
}

func TestSparseSet_RejectsWideTrait(t *testing.T) {
	if _, err := NewSparseSet[uint64](identifier.Of[uint64]()); err == nil {
		t.Fatalf("expected error for a trait wider than 32 bits")
	}
}

func TestSparseSet_Algebra(t *testing.T) {
	a, _ := NewSparseSet[nodeID](nodeTrait)
	a.Insert(2)
	a.Insert(7)

	b, _ := NewSparseSet[nodeID](nodeTrait)
	b.Insert(7)
	b.Insert(9)

	u := a.Clone()
	u.UnionWith(b)
	var got []nodeID
	for k := range u.All() {
		got = append(got, k)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 7 || got[2] != 9 {
		t.Fatalf("expected union {2 7 9}, got %v", got)
	}

	i := a.Clone()
	i.IntersectWith(b)
	if i.Len() != 1 || !i.Contains(7) {
		t.Fatalf("expected intersection {7}")
	}

	d := a.Clone()
	d.DifferenceWith(b)
	if d.Len() != 1 || !d.Contains(2) {
		t.Fatalf("expected difference {2}")
	}
}

func TestSparseSet_Serialization(t *testing.T) {
	s, _ := NewSparseSet[nodeID](nodeTrait)
	s.Insert(1)
	s.Insert(500)
	s.Insert(1 << 20)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	s2, _ := NewSparseSet[nodeID](nodeTrait)
	if _, err := s2.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}

	if s2.Len() != 3 || !s2.Contains(1) || !s2.Contains(500) || !s2.Contains(1<<20) {
		t.Fatalf("serialization lost members")
	}
}

func TestSparseSet_Clear(t *testing.T) {
	s, _ := NewSparseSet[nodeID](nodeTrait)
	s.Insert(3)
	s.Clear()
	if !s.IsEmpty() || s.Contains(3) {
		t.Fatalf("expected empty set after clear")
	}
}
