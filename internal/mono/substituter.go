package mono

import (
	"fmt"

	"tycore/internal/decl"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// Substituter produces instantiations of trait templates stored in Engines.
type Substituter struct {
	Engines *ty.Engines
	Tracer  trace.Tracer
	// Parent is the trace span the instantiation spans hang under.
	Parent uint64
}

// NewSubstituter creates a substituter; a nil tracer disables tracing.
func NewSubstituter(e *ty.Engines, tracer trace.Tracer) *Substituter {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Substituter{Engines: e, Tracer: tracer}
}

// Trait instantiates the template behind r with m.
//
// The copy gets its own handle for every member: surface functions and all
// items are inserted with the template member as parent, surface constants
// and types standalone. Provided items are rewired through the surface
// mapping so their calls reach the instantiated signatures.
func (s *Substituter) Trait(r ty.TraitRef, m *types.SubstMap) *Instantiation {
	e := s.Engines
	span := trace.Begin(s.Tracer, trace.ScopeDecl, "mono:"+e.Name(r.Name()), s.Parent)

	out := e.Decls.Trait(r)
	surface := decl.NewMapping()
	items := decl.NewMapping()

	for i := range out.TypeParams {
		out.TypeParams[i].SubstTypes(m, e)
	}

	for i := range out.InterfaceSurface {
		it := &out.InterfaceSurface[i]
		item := trace.Begin(s.Tracer, trace.ScopeItem, "surface:"+e.Name(it.Name()), span.ID())
		old := it.Any()
		switch it.Kind {
		case ty.ItemFn:
			next := ty.SubstAndInsert(e.Decls.TraitFns, it.TraitFn, m, nil, ty.InsertWithParent, e)
			surface.Insert(old, next.Any())
			it.TraitFn.ReplaceID(next.ID())
		case ty.ItemConstant:
			next := ty.SubstAndInsert(e.Decls.Constants, it.Constant, m, nil, ty.InsertStandalone, e)
			surface.Insert(old, next.Any())
			it.Constant.ReplaceID(next.ID())
		case ty.ItemType:
			// associated types are not recorded: nothing indexes the template handle
			next := ty.SubstAndInsert(e.Decls.TraitTypes, it.Type, m, nil, ty.InsertStandalone, e)
			it.Type.ReplaceID(next.ID())
		default:
			panic(fmt.Sprintf("mono: invalid interface item kind %d", it.Kind))
		}
		item.End(old.String() + " -> " + it.Any().String())
	}

	for i := range out.Items {
		it := &out.Items[i]
		item := trace.Begin(s.Tracer, trace.ScopeItem, "item:"+e.Name(it.Name()), span.ID())
		old := it.Any()
		switch it.Kind {
		case ty.ItemFn:
			next := ty.SubstAndInsert(e.Decls.Functions, it.Fn, m, surface, ty.InsertWithParent, e)
			it.Fn.ReplaceID(next.ID())
		case ty.ItemConstant:
			next := ty.SubstAndInsert(e.Decls.Constants, it.Constant, m, surface, ty.InsertWithParent, e)
			it.Constant.ReplaceID(next.ID())
		case ty.ItemType:
			next := ty.SubstAndInsert(e.Decls.TraitTypes, it.Type, m, surface, ty.InsertWithParent, e)
			it.Type.ReplaceID(next.ID())
		default:
			panic(fmt.Sprintf("mono: invalid item kind %d", it.Kind))
		}
		items.Insert(old, it.Any())
		item.End(old.String() + " -> " + it.Any().String())
	}

	instance := r.WithID(e.Decls.Traits.InsertWithParent(out, r.ID()))
	span.WithExtra("surface", fmt.Sprint(surface.Len())).
		WithExtra("items", fmt.Sprint(items.Len())).
		End(instance.Any().String())

	return &Instantiation{
		Template: r,
		Instance: instance,
		Trait:    out,
		Subst:    m,
		Surface:  surface,
		Items:    items,
	}
}
