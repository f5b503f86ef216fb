package main

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hupe1980/idkit"
	"github.com/hupe1980/idkit/idalloc"
	"github.com/hupe1980/idkit/identifier"
	"github.com/hupe1980/idkit/persist"
	"github.com/hupe1980/idkit/traverse"
)

type nodeID uint32

func main() {
	trait := identifier.Of[nodeID]()

	alloc := idalloc.New(trait)
	labels := idkit.NewMap[nodeID, string](trait)
	edges := idkit.NewMap[nodeID, []nodeID](trait)

	// Mint identifiers and build a tiny graph.
	root := mustAllocate(alloc)
	left := mustAllocate(alloc)
	right := mustAllocate(alloc)

	labels.Insert(root, "root")
	labels.Insert(left, "left")
	labels.Insert(right, "right")
	edges.Insert(root, []nodeID{left, right})

	// Walk it with a bitset visited marker.
	visited := idkit.NewSet[nodeID](trait)
	traverse.BFS(root, func(n nodeID) []nodeID {
		next, _ := edges.Get(n)
		return next
	}, visited, func(n nodeID) bool {
		name, _ := labels.Get(n)
		fmt.Printf("visited %d (%s)\n", n, name)
		return true
	})

	// Release an identifier; the allocator reuses it.
	labels.Remove(right)
	alloc.Release(right)
	reused := mustAllocate(alloc)
	fmt.Printf("reused identifier: %d\n", reused)

	// Snapshot the labels and load them back.
	var buf bytes.Buffer
	if err := persist.SaveMap(&buf, labels, persist.WithCompression(persist.CompressionLZ4)); err != nil {
		log.Fatal(err)
	}
	restored, err := persist.LoadMap[nodeID, string](&buf, trait)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("restored %d labels from a %d byte snapshot\n", restored.Len(), buf.Len())
}

func mustAllocate(a *idalloc.Allocator[nodeID]) nodeID {
	id, err := a.Allocate()
	if err != nil {
		log.Fatal(err)
	}
	return id
}
