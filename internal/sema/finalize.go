package sema

import (
	"fmt"

	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// Finalizer completes deferred type checking of items already in the store.
// Each successful item is written back with Replace on its own handle.
type Finalizer struct {
	Engines  *ty.Engines
	Reporter diag.Reporter
	Tracer   trace.Tracer
	Parent   uint64
}

// FinalizeItems finalizes items without tracing.
func FinalizeItems(r diag.Reporter, e *ty.Engines, items []ty.Item) error {
	f := Finalizer{Engines: e, Reporter: r}
	return f.Items(items)
}

func (c *Checker) finalizer(parent uint64) *Finalizer {
	return &Finalizer{Engines: c.e, Reporter: c.handler, Tracer: c.tracer, Parent: parent}
}

// Items finalizes every item independently. A failing item is reported and
// left as it was; its siblings are still processed. The result is
// diag.ErrEmitted once when any item failed.
//
// Finalized items are skipped, so running Items twice changes nothing.
func (f *Finalizer) Items(items []ty.Item) error {
	if f.Tracer == nil {
		f.Tracer = trace.Nop
	}
	failed := false
	for _, it := range items {
		if !f.item(it) {
			failed = true
		}
	}
	if failed {
		return diag.ErrEmitted
	}
	return nil
}

func (f *Finalizer) item(it ty.Item) bool {
	e := f.Engines
	switch it.Kind {
	case ty.ItemFn:
		span := trace.Begin(f.Tracer, trace.ScopeItem, "finalize:"+e.Name(it.Name()), f.Parent)
		fn := e.Decls.Function(it.Fn)
		if fn.Finalized {
			span.End("cached")
			return true
		}
		if !f.function(&fn) {
			trace.ErrorPoint(f.Tracer, trace.ScopeItem, "finalize:"+e.Name(it.Name()), "type annotations needed", span.ID())
			span.End("failed")
			return false
		}
		e.Decls.Functions.Replace(it.Fn.ID(), fn)
		span.End(it.Any().String())
		return true
	case ty.ItemConstant:
		span := trace.Begin(f.Tracer, trace.ScopeItem, "finalize:"+e.Name(it.Name()), f.Parent)
		c := e.Decls.Constant(it.Constant)
		if c.Finalized {
			span.End("cached")
			return true
		}
		if !f.constant(&c) {
			trace.ErrorPoint(f.Tracer, trace.ScopeItem, "finalize:"+e.Name(it.Name()), "type annotations needed", span.ID())
			span.End("failed")
			return false
		}
		e.Decls.Constants.Replace(it.Constant.ID(), c)
		span.End(it.Any().String())
		return true
	case ty.ItemType:
		// nothing deferred
		return true
	default:
		panic(fmt.Sprintf("sema: invalid item kind %d", it.Kind))
	}
}

func (f *Finalizer) function(fn *ty.Function) bool {
	name := f.Engines.Name(fn.Name)
	ok := true
	for i := range fn.Params {
		p := &fn.Params[i]
		ok = f.settle(&p.Type, p.Span, "parameter '"+f.Engines.Name(p.Name)+"'") && ok
	}
	ok = f.settle(&fn.ReturnType, fn.Name.Span, "the return type of '"+name+"'") && ok
	for i := range fn.Body {
		x := &fn.Body[i]
		ok = f.settle(&x.Type, x.Span, "") && ok
	}
	if ok {
		fn.Finalized = true
	}
	return ok
}

func (f *Finalizer) constant(c *ty.Constant) bool {
	ok := f.settle(&c.Type, c.Name.Span, "constant '"+f.Engines.Name(c.Name)+"'")
	if c.Value != nil {
		ok = f.settle(&c.Value.Type, c.Value.Span, "") && ok
	}
	if ok {
		c.Finalized = true
	}
	return ok
}

// settle replaces *id by its resolved form, or reports that it still
// mentions an unbound inference variable.
func (f *Finalizer) settle(id *types.TypeID, span source.Span, what string) bool {
	in := f.Engines.Types
	if in.HasUnbound(*id) {
		msg := "type annotations needed"
		if what != "" {
			msg += " for " + what
		}
		if b := diag.ReportError(f.Reporter, diag.SemaTypeAnnotationsNeeded, span, msg); b != nil {
			b.Emit()
		}
		return false
	}
	*id = in.Resolve(*id)
	return true
}
