package sema

import (
	"fmt"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/diag"
	"tycore/internal/mono"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// Impl is a checked `impl Trait<Args> for Type`.
type Impl struct {
	Trait ty.TraitRef
	For   types.TypeID
	Args  []types.TypeID
	// Instance is the trait instantiated with Self = For and the arguments.
	Instance *mono.Instantiation
	Fns      []ty.FunctionRef
	Consts   []ty.ConstantRef
	Types    []ty.TraitTypeRef
	Span     source.Span
}

// Members returns the impl's own members as items.
func (im *Impl) Members() []ty.Item {
	out := make([]ty.Item, 0, len(im.Fns)+len(im.Consts)+len(im.Types))
	for _, r := range im.Fns {
		out = append(out, ty.ItemFunction(r))
	}
	for _, r := range im.Consts {
		out = append(out, ty.ItemConst(r))
	}
	for _, r := range im.Types {
		out = append(out, ty.ItemTraitType(r))
	}
	return out
}

// InterfaceFor instantiates the trait behind r for an implementing type and
// the trait's type arguments. Instantiations are shared through the checker's
// cache.
func (c *Checker) InterfaceFor(r ty.TraitRef, selfType types.TypeID, args []types.TypeID, span source.Span) (*mono.Instantiation, error) {
	tmpl := c.e.Decls.Trait(r)
	if len(args) != len(tmpl.TypeParams) {
		c.report(diag.SemaTraitArgCount, span, "trait '%s' expects %d type arguments, got %d",
			c.e.Name(r.Name()), len(tmpl.TypeParams), len(args))
		return nil, diag.ErrEmitted
	}
	m := types.NewSubstMap()
	m.Insert(tmpl.SelfType.Type, selfType)
	for i, p := range tmpl.TypeParams {
		m.Insert(p.Type, args[i])
	}
	inst, _ := c.cache.Trait(r, m)
	return inst, nil
}

// implContext carries the state shared by the members of one impl.
type implContext struct {
	impl      *Impl
	inst      *mono.Instantiation
	name      string
	vis       ast.Visibility
	scope     *typeScope
	callees   *calleeSet
	binding   ty.ImplementingType
	seen      map[source.StringID]source.Span
	satisfied map[source.StringID]bool
}

// CheckImpl checks d against the trait surface instantiated for its
// implementing type. Missing and mismatched members are reported; the
// instantiated items are bound to the impl and finalized together with the
// impl's own members.
func (c *Checker) CheckImpl(d *ast.ImplDecl) (*Impl, error) {
	before := c.handler.ErrorCount()
	traitName := c.e.Name(d.Trait)
	span := trace.Begin(c.tracer, trace.ScopeDecl, "impl:"+traitName, c.parent)
	defer span.End("")

	ref, ok := c.traits[d.Trait.Name]
	if !ok {
		c.report(diag.SemaTraitNotFound, d.Trait.Span, "unknown trait '%s'", traitName)
		return nil, diag.ErrEmitted
	}
	sc := &typeScope{params: make(map[source.StringID]types.TypeID)}
	forType := c.resolveType(d.For, sc)
	args, argsOK := c.resolveTypes(d.Args, sc)
	if forType == types.NoTypeID || !argsOK {
		return nil, diag.ErrEmitted
	}
	if prev := c.findImpl(ref, forType, args); prev != nil {
		c.reportDuplicate(diag.SemaDuplicateSymbol, d.Span, prev.Span, "impl",
			fmt.Sprintf("%s for %s", traitName, c.label(forType)))
		return nil, diag.ErrEmitted
	}
	inst, err := c.InterfaceFor(ref, forType, args, d.Span)
	if err != nil {
		return nil, err
	}
	span.WithExtra("for", c.label(forType))

	sc.self = forType
	ic := &implContext{
		impl:      &Impl{Trait: ref, For: forType, Args: args, Instance: inst, Span: d.Span},
		inst:      inst,
		name:      traitName,
		vis:       inst.Trait.Visibility,
		scope:     sc,
		callees:   instanceCallees(inst, traitName),
		binding:   ty.ImplementingType{Trait: ref, For: forType},
		seen:      make(map[source.StringID]source.Span),
		satisfied: make(map[source.StringID]bool),
	}
	for i := range d.Fns {
		c.implFn(ic, &d.Fns[i])
	}
	for i := range d.Consts {
		c.implConst(ic, &d.Consts[i])
	}
	for i := range d.Types {
		c.implType(ic, &d.Types[i])
	}
	c.reportMissing(ic, d)

	for _, it := range inst.Trait.Items {
		it.ReplaceImplementingType(c.e, ic.binding)
	}
	items := append(ic.impl.Members(), inst.Trait.Items...)
	ferr := c.finalizer(span.ID()).Items(items)

	c.impls = append(c.impls, ic.impl)
	if ferr != nil {
		return ic.impl, ferr
	}
	return ic.impl, c.errorsSince(before)
}

func instanceCallees(inst *mono.Instantiation, trait string) *calleeSet {
	set := &calleeSet{
		fns:      make(map[source.StringID]ty.TraitFnRef),
		provided: make(map[source.StringID]source.Span),
		trait:    trait,
	}
	for _, it := range inst.Trait.InterfaceSurface {
		if it.Kind == ty.ItemFn {
			set.fns[it.Name().Name] = it.TraitFn
		}
	}
	for _, it := range inst.Trait.Items {
		if it.Kind == ty.ItemFn {
			set.provided[it.Name().Name] = it.Span()
		}
	}
	return set
}

func (c *Checker) findImpl(r ty.TraitRef, forType types.TypeID, args []types.TypeID) *Impl {
	for _, im := range c.impls {
		if im.Trait.ID() == r.ID() && c.e.Types.Equal(im.For, forType) && c.e.Types.EqualList(im.Args, args) {
			return im
		}
	}
	return nil
}

// member finds what an impl member named name implements: a required member
// first, then a provided one it overrides.
func (ic *implContext) member(name source.StringID) (ty.ItemKind, bool) {
	if it, ok := ic.inst.Lookup(name); ok {
		return it.Kind, true
	}
	if it, ok := ic.inst.LookupItem(name); ok {
		return it.Kind, true
	}
	return 0, false
}

// claim records name as implemented; false on a duplicate or unknown member.
func (c *Checker) claim(ic *implContext, name source.Ident, want ty.ItemKind) bool {
	if prev, ok := ic.seen[name.Name]; ok {
		c.reportDuplicate(diag.SemaDuplicateSymbol, name.Span, prev, "member", c.e.Name(name))
		return false
	}
	ic.seen[name.Name] = name.Span
	kind, ok := ic.member(name.Name)
	if !ok {
		c.report(diag.SemaTraitUnknownMember, name.Span, "'%s' is not a member of trait '%s'", c.e.Name(name), ic.name)
		return false
	}
	if kind != want {
		c.report(diag.SemaTraitUnknownMember, name.Span, "'%s' is a %s of trait '%s', not a %s",
			c.e.Name(name), kind, ic.name, want)
		return false
	}
	ic.satisfied[name.Name] = true
	return true
}

func (c *Checker) implFn(ic *implContext, fd *ast.FnDecl) {
	if !c.claim(ic, fd.Name, ty.ItemFn) {
		return
	}
	fn := c.lowerFunction(fd, ic.scope, ic.callees, ic.vis)

	var (
		wantParams []types.TypeID
		wantRet    types.TypeID
		wantSig    string
		wantSpan   source.Span
	)
	if it, ok := ic.inst.Lookup(fd.Name.Name); ok {
		sig := c.e.Decls.TraitFn(it.TraitFn)
		wantParams, wantRet = paramTypes(sig.Params), sig.ReturnType
		wantSig, wantSpan = sig.Signature(c.e), it.Span()
	} else {
		it, _ := ic.inst.LookupItem(fd.Name.Name)
		def := c.e.Decls.Function(it.Fn)
		wantParams, wantRet = paramTypes(def.Params), def.ReturnType
		wantSig, wantSpan = def.Signature(c.e), it.Span()
	}
	if !c.e.Types.EqualList(paramTypes(fn.Params), wantParams) || !c.e.Types.Equal(fn.ReturnType, wantRet) {
		msg := fmt.Sprintf("method '%s' does not match trait '%s': expected `%s`, found `%s`",
			c.e.Name(fd.Name), ic.name, wantSig, fn.Signature(c.e))
		if b := diag.ReportError(c.handler, diag.SemaTraitMethodMismatch, fd.Name.Span, msg); b != nil {
			b.WithNote(wantSpan, "required by this declaration").Emit()
		}
		return
	}
	binding := ic.binding
	fn.Implementing = &binding
	ref := decl.NewRef(c.e.Decls.Functions.Insert(fn), fd.Name, fd.Name.Span)
	ic.impl.Fns = append(ic.impl.Fns, ref)
}

func (c *Checker) implConst(ic *implContext, cd *ast.ConstDecl) {
	if !c.claim(ic, cd.Name, ty.ItemConstant) {
		return
	}
	k := c.lowerConstant(cd, ic.scope, ic.callees, ic.vis)
	var want types.TypeID
	if it, ok := ic.inst.Lookup(cd.Name.Name); ok {
		want = c.e.Decls.Constant(it.Constant).Type
	} else {
		it, _ := ic.inst.LookupItem(cd.Name.Name)
		want = c.e.Decls.Constant(it.Constant).Type
	}
	if k.Value == nil {
		c.report(diag.SemaTraitMissingConst, cd.Name.Span, "constant '%s' of trait '%s' needs a value", c.e.Name(cd.Name), ic.name)
		return
	}
	if !c.e.Types.Equal(k.Type, want) {
		c.report(diag.SemaTraitConstTypeError, cd.Name.Span, "constant '%s' has type %s, but trait '%s' requires %s",
			c.e.Name(cd.Name), c.label(k.Type), ic.name, c.label(want))
		return
	}
	ref := decl.NewRef(c.e.Decls.Constants.Insert(k), cd.Name, cd.Name.Span)
	ic.impl.Consts = append(ic.impl.Consts, ref)
}

func (c *Checker) implType(ic *implContext, td *ast.TypeDecl) {
	if !c.claim(ic, td.Name, ty.ItemType) {
		return
	}
	t := c.lowerAssocType(td, ic.scope)
	if td.Default == nil {
		c.report(diag.SemaTraitMissingType, td.Name.Span, "associated type '%s' of trait '%s' needs a definition", c.e.Name(td.Name), ic.name)
		return
	}
	ref := decl.NewRef(c.e.Decls.TraitTypes.Insert(t), td.Name, td.Name.Span)
	ic.impl.Types = append(ic.impl.Types, ref)
}

// reportMissing reports required members the impl left out.
func (c *Checker) reportMissing(ic *implContext, d *ast.ImplDecl) {
	for _, it := range ic.inst.Trait.InterfaceSurface {
		name := it.Name()
		if ic.satisfied[name.Name] || ic.seen[name.Name] != (source.Span{}) {
			continue
		}
		var (
			code diag.Code
			what string
		)
		switch it.Kind {
		case ty.ItemFn:
			code, what = diag.SemaTraitMissingMethod, "method"
		case ty.ItemConstant:
			code, what = diag.SemaTraitMissingConst, "constant"
		case ty.ItemType:
			code, what = diag.SemaTraitMissingType, "associated type"
		default:
			panic(fmt.Sprintf("sema: invalid interface item kind %d", it.Kind))
		}
		msg := fmt.Sprintf("missing %s '%s' required by trait '%s'", what, c.e.Name(name), ic.name)
		if b := diag.ReportError(c.handler, code, d.Span, msg); b != nil {
			b.WithNote(it.Span(), fmt.Sprintf("'%s' is declared here", c.e.Name(name))).Emit()
		}
	}
}

func paramTypes(ps []ty.FnParam) []types.TypeID {
	out := make([]types.TypeID, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}
