package dag

import (
	"slices"
	"testing"
)

func build(t *testing.T, names []string, edges [][2]string) (*Index, Graph) {
	t.Helper()
	idx := NewIndex(len(names))
	for _, n := range names {
		idx.Add(n)
	}
	g := NewGraph(idx.Len())
	for _, n := range names {
		g.Present[idx.NameToID[n]] = true
	}
	for _, e := range edges {
		from, ok := idx.NameToID[e[0]]
		if !ok {
			t.Fatalf("unknown node %q", e[0])
		}
		g.AddEdge(from, idx.NameToID[e[1]])
	}
	return idx, g
}

func TestIndexKeepsFirstID(t *testing.T) {
	idx := NewIndex(2)
	a, added := idx.Add("A")
	if !added || a != 0 {
		t.Fatalf("first add: id=%d added=%v", a, added)
	}
	again, added := idx.Add("A")
	if added || again != a {
		t.Fatalf("second add must return the first id")
	}
	if b, _ := idx.Add("B"); b != 1 || idx.Len() != 2 {
		t.Fatalf("unexpected index %+v", idx)
	}
}

func TestToposortBatches(t *testing.T) {
	// Debug и Clone ни от чего не зависят, Show требует оба
	idx, g := build(t, []string{"Show", "Debug", "Clone", "Pretty"}, [][2]string{
		{"Debug", "Show"},
		{"Clone", "Show"},
		{"Clone", "Show"},
		{"Show", "Pretty"},
	})
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idx.Names(topo.Cycles))
	}
	if got := idx.Names(topo.Order); !slices.Equal(got, []string{"Debug", "Clone", "Show", "Pretty"}) {
		t.Fatalf("order = %v", got)
	}
	if len(topo.Batches) != 3 || len(topo.Batches[0]) != 2 {
		t.Fatalf("batches = %v", topo.Batches)
	}
	if g.Indeg[idx.NameToID["Show"]] != 2 {
		t.Fatalf("duplicate edge must be ignored")
	}
}

func TestToposortReportsCycles(t *testing.T) {
	idx, g := build(t, []string{"A", "B", "C", "D"}, [][2]string{
		{"A", "B"},
		{"B", "A"},
		{"B", "C"},
	})
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected a cycle")
	}
	if got := idx.Names(topo.Cycles); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("cycles = %v", got)
	}
	if got := idx.Names(topo.Order); !slices.Equal(got, []string{"D"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestSelfEdgeIsCycle(t *testing.T) {
	idx, g := build(t, []string{"Loop"}, [][2]string{{"Loop", "Loop"}})
	topo := ToposortKahn(g)
	if !topo.Cyclic || idx.Names(topo.Cycles)[0] != "Loop" {
		t.Fatalf("self edge must be cyclic: %+v", topo)
	}
}

func TestEdgesFromAbsentNodesIgnored(t *testing.T) {
	idx := NewIndex(2)
	ghost, _ := idx.Add("Ghost")
	decl, _ := idx.Add("Real")
	g := NewGraph(idx.Len())
	g.Present[decl] = true
	g.AddEdge(ghost, decl)
	topo := ToposortKahn(g)
	if topo.Cyclic || len(topo.Order) != 1 || topo.Order[0] != decl {
		t.Fatalf("absent node must not block: %+v", topo)
	}
}
