package decl

import (
	"errors"
	"slices"
	"testing"

	"tycore/internal/source"
)

type testConst struct {
	Name string
	Tags []string
}

func (c testConst) Clone() testConst {
	c.Tags = slices.Clone(c.Tags)
	return c
}

func (testConst) DeclKind() Kind { return KindConstant }

func TestArenaReservesZero(t *testing.T) {
	a := NewArena[testConst](0)
	id := a.Insert(testConst{Name: "A"})
	if !id.IsValid() || id != 1 {
		t.Fatalf("first insert must get id 1, got %d", id)
	}
	if a.Contains(0) {
		t.Fatalf("zero id must never be valid")
	}
	if a.Len() != 1 {
		t.Fatalf("len = %d", a.Len())
	}
}

func TestArenaGetReturnsIndependentCopy(t *testing.T) {
	a := NewArena[testConst](0)
	id := a.Insert(testConst{Name: "A", Tags: []string{"x"}})
	got := a.Get(id)
	got.Tags[0] = "mutated"
	got.Name = "B"
	again := a.Get(id)
	if again.Name != "A" || again.Tags[0] != "x" {
		t.Fatalf("stored body changed through a fetched copy: %+v", again)
	}
}

func TestArenaReplaceIsVisibleThroughRefs(t *testing.T) {
	a := NewArena[testConst](0)
	id := a.Insert(testConst{Name: "A"})
	ref := NewRef(id, source.Ident{}, source.Span{})
	copied := ref
	a.Replace(id, testConst{Name: "A2"})
	if a.Get(copied.ID()).Name != "A2" || a.Get(ref.ID()).Name != "A2" {
		t.Fatalf("replace must be observed by every copy of the handle")
	}
	if a.Revision(id) != 1 {
		t.Fatalf("revision = %d", a.Revision(id))
	}
}

func TestArenaParentAndOrigin(t *testing.T) {
	a := NewArena[testConst](0)
	root := a.Insert(testConst{Name: "tmpl"})
	child := a.InsertWithParent(a.Get(root), root)
	grandchild := a.InsertWithParent(a.Get(child), child)
	if p, ok := a.Parent(child); !ok || p != root {
		t.Fatalf("parent(child) = %d, %v", p, ok)
	}
	if _, ok := a.Parent(root); ok {
		t.Fatalf("root must have no parent")
	}
	if a.Origin(grandchild) != root {
		t.Fatalf("origin must walk up to the template")
	}
}

func TestArenaStaleIDPanics(t *testing.T) {
	a := NewArena[testConst](0)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound panic, got %v", r)
		}
	}()
	a.Get(ID[testConst](7))
}

func TestArenaLookupDoesNotPanic(t *testing.T) {
	a := NewArena[testConst](0)
	if _, ok := a.Lookup(3); ok {
		t.Fatalf("lookup of unknown id must fail")
	}
}

func TestMappingRewire(t *testing.T) {
	a := NewArena[testConst](0)
	old := a.Insert(testConst{Name: "old"})
	fresh := a.Insert(testConst{Name: "new"})
	m := NewMapping()
	m.Insert(old.Any(), fresh.Any())

	name := source.Ident{Name: 4}
	ref := NewRef(old, name, source.Span{Start: 1, End: 2})
	rewired, ok := Rewire(m, ref)
	if !ok || rewired.ID() != fresh {
		t.Fatalf("rewire = %d, %v", rewired.ID(), ok)
	}
	if rewired.Name() != name || rewired.Span() != ref.Span() {
		t.Fatalf("rewire must keep cached name and span")
	}
	if _, ok := Rewire(m, NewRef(fresh, name, source.Span{})); ok {
		t.Fatalf("unmapped ref must be left alone")
	}
	if got := m.Keys(); len(got) != 1 || got[0] != old.Any() {
		t.Fatalf("keys = %v", got)
	}
}

func TestMappingRejectsKindMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewMapping().Insert(AnyID{Kind: KindFunction, Index: 1}, AnyID{Kind: KindConstant, Index: 2})
}
