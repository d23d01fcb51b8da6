package sema

import (
	"fmt"
	"strings"

	"tycore/internal/ast"
	"tycore/internal/dag"
	"tycore/internal/diag"
	"tycore/internal/mono"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// Options configure a Checker.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Parent is the trace span sema spans hang under.
	Parent uint64
}

// Result lists the declarations a file contributed, in check order.
type Result struct {
	Traits []ty.TraitRef
	Impls  []*Impl
}

// Checker owns the symbol tables of one compilation unit. All declarations
// it produces are stored in its Engines.
type Checker struct {
	e       *ty.Engines
	handler *diag.Handler
	tracer  trace.Tracer
	parent  uint64
	subst   *mono.Substituter
	cache   *mono.Cache

	nominal  map[source.StringID]source.Span
	declared map[source.StringID]source.Span
	traits   map[source.StringID]ty.TraitRef
	impls    []*Impl
	// owner numbers generic declarations for RegisterTypeParam.
	owner uint32
}

// New creates a Checker over e.
func New(e *ty.Engines, opts Options) *Checker {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	sub := mono.NewSubstituter(e, tracer)
	sub.Parent = opts.Parent
	return &Checker{
		e:        e,
		handler:  diag.NewHandler(opts.Reporter),
		tracer:   tracer,
		parent:   opts.Parent,
		subst:    sub,
		cache:    mono.NewCache(sub),
		nominal:  make(map[source.StringID]source.Span),
		declared: make(map[source.StringID]source.Span),
		traits:   make(map[source.StringID]ty.TraitRef),
	}
}

// Engines returns the engines the checker stores into.
func (c *Checker) Engines() *ty.Engines { return c.e }

// Handler returns the diagnostic handler counting this checker's reports.
func (c *Checker) Handler() *diag.Handler { return c.handler }

// Cache returns the instantiation cache used for impls.
func (c *Checker) Cache() *mono.Cache { return c.cache }

// LookupTrait finds a checked trait by name.
func (c *Checker) LookupTrait(name string) (ty.TraitRef, bool) {
	r, ok := c.traits[c.e.Strings.InternIdent(name)]
	return r, ok
}

// CheckFile checks every declaration of f: nominal types first, then traits
// with supertraits ahead of their subtraits, then impls. It returns diag.ErrEmitted when any of them reported
// an error; the declarations that did check are still part of the result.
func (c *Checker) CheckFile(f *ast.File) (Result, error) {
	var res Result
	if f == nil {
		return res, nil
	}
	span := trace.Begin(c.tracer, trace.ScopePass, "sema", c.parent)
	defer span.End("")
	before := c.handler.ErrorCount()

	for _, name := range f.Types {
		c.DeclareType(name)
	}
	// supertraits may name traits declared further down
	for _, tr := range f.Traits {
		if _, ok := c.declared[tr.Name.Name]; !ok {
			c.declared[tr.Name.Name] = tr.Name.Span
		}
	}

	parent := c.parent
	c.parent = span.ID()
	defer func() { c.parent = parent }()

	for _, i := range c.traitOrder(f.Traits) {
		if ref, _ := c.CheckTrait(&f.Traits[i]); ref.IsValid() {
			res.Traits = append(res.Traits, ref)
		}
	}
	for i := range f.Impls {
		if impl, _ := c.CheckImpl(&f.Impls[i]); impl != nil {
			res.Impls = append(res.Impls, impl)
		}
	}
	if c.handler.ErrorCount() > before {
		return res, diag.ErrEmitted
	}
	return res, nil
}

// traitOrder returns trait indexes with supertraits from the same file first.
// Traits on or behind a supertrait cycle are reported and follow in
// declaration order; redeclarations come last so the first one wins.
func (c *Checker) traitOrder(traits []ast.TraitDecl) []int {
	idx := dag.NewIndex(len(traits))
	first := make([]int, 0, len(traits))
	var dups []int
	for i := range traits {
		if _, added := idx.Add(c.e.Name(traits[i].Name)); added {
			first = append(first, i)
		} else {
			dups = append(dups, i)
		}
	}
	g := dag.NewGraph(idx.Len())
	for _, i := range first {
		to := idx.NameToID[c.e.Name(traits[i].Name)]
		g.Present[to] = true
		for _, st := range traits[i].Supertraits {
			if from, ok := idx.NameToID[c.e.Name(st.Name())]; ok {
				g.AddEdge(from, to)
			}
		}
	}

	topo := dag.ToposortKahn(g)
	order := make([]int, 0, len(traits))
	for _, id := range topo.Order {
		order = append(order, first[id])
	}
	if topo.Cyclic {
		cycle := strings.Join(idx.Names(topo.Cycles), ", ")
		for _, id := range topo.Cycles {
			d := &traits[first[id]]
			c.report(diag.SemaTraitSupertraitCycle, d.Name.Span, "supertraits of '%s' form a cycle among %s", c.e.Name(d.Name), cycle)
			order = append(order, first[id])
		}
	}
	return append(order, dups...)
}

// DeclareType registers a nominal type name.
func (c *Checker) DeclareType(name source.Ident) {
	if prev, ok := c.nominal[name.Name]; ok {
		c.reportDuplicate(diag.SemaDuplicateSymbol, name.Span, prev, "type", c.e.Name(name))
		return
	}
	c.nominal[name.Name] = name.Span
}

// ResolveType resolves a type written outside any trait: no Self and no type
// parameters are in scope.
func (c *Checker) ResolveType(te ast.TypeExpr) types.TypeID {
	return c.resolveType(te, &typeScope{})
}

// errorsSince turns an error-count delta into the sentinel.
func (c *Checker) errorsSince(before int) error {
	if c.handler.ErrorCount() > before {
		return diag.ErrEmitted
	}
	return nil
}

func (c *Checker) report(code diag.Code, span source.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(c.handler, code, span, msg); b != nil {
		b.Emit()
	}
}

func (c *Checker) reportDuplicate(code diag.Code, primary, prev source.Span, what, name string) {
	msg := fmt.Sprintf("duplicate %s '%s'", what, name)
	b := diag.ReportError(c.handler, code, primary, msg)
	if b == nil {
		return
	}
	if prev != (source.Span{}) {
		b.WithNote(prev, fmt.Sprintf("previous declaration of '%s' is here", name))
	}
	b.Emit()
}

func (c *Checker) label(id types.TypeID) string {
	return c.e.Types.Label(id)
}
