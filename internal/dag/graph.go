// Package dag orders named declarations by their dependencies. Sema uses it
// to check traits after their supertraits and to find supertrait cycles.
package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type NodeID uint32

// Index numbers node names in insertion order. Adding a name twice keeps
// the first ID.
type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

func NewIndex(capacity int) *Index {
	return &Index{
		NameToID: make(map[string]NodeID, capacity),
		IDToName: make([]string, 0, capacity),
	}
}

// Add returns the ID of name and whether it was newly added.
func (idx *Index) Add(name string) (NodeID, bool) {
	if id, ok := idx.NameToID[name]; ok {
		return id, false
	}
	id, err := safecast.Conv[NodeID](len(idx.IDToName))
	if err != nil {
		panic(fmt.Errorf("dag: node id overflow: %w", err))
	}
	idx.NameToID[name] = id
	idx.IDToName = append(idx.IDToName, name)
	return id, true
}

func (idx *Index) Len() int { return len(idx.IDToName) }

// Names maps ids back to their names.
func (idx *Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to, from должен идти раньше to
	Indeg   []int
	Present []bool // узел реально объявлен, а не только упомянут
}

func NewGraph(nodes int) Graph {
	return Graph{
		Edges:   make([][]NodeID, nodes),
		Indeg:   make([]int, nodes),
		Present: make([]bool, nodes),
	}
}

// AddEdge records that from must come before to. Repeated edges are
// ignored; a self edge is kept and makes the node cyclic.
func (g *Graph) AddEdge(from, to NodeID) {
	if slices.Contains(g.Edges[int(from)], to) {
		return
	}
	g.Edges[int(from)] = append(g.Edges[int(from)], to)
	g.Indeg[int(to)]++
}
