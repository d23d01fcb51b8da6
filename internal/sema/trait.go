package sema

import (
	"slices"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// CheckTrait lowers d into a trait template and stores it. Required members
// form the interface surface and provided members the items, each in
// declaration order. Items are finalized before returning.
//
// A failing member is reported and dropped; the trait is still stored unless
// its name is a duplicate.
func (c *Checker) CheckTrait(d *ast.TraitDecl) (ty.TraitRef, error) {
	before := c.handler.ErrorCount()
	name := c.e.Name(d.Name)
	if prev, ok := c.traits[d.Name.Name]; ok {
		c.reportDuplicate(diag.SemaDuplicateSymbol, d.Name.Span, prev.Span(), "trait", name)
		return ty.TraitRef{}, diag.ErrEmitted
	}
	span := trace.Begin(c.tracer, trace.ScopeDecl, "trait:"+name, c.parent)
	defer span.End("")

	c.owner++
	sc := &typeScope{params: make(map[source.StringID]types.TypeID)}
	self := c.selfParam(d, sc)
	tr := ty.TraitDecl{
		Name:        d.Name,
		TypeParams:  c.declareTypeParams(d.TypeParams, sc, 1),
		SelfType:    self,
		Supertraits: slices.Clone(d.Supertraits),
		Visibility:  d.Visibility,
		Attributes:  ty.NewAttributes(d.Attrs),
		Span:        d.Span,
	}

	members := c.uniqueMembers(d.Members)
	callees := &calleeSet{
		fns:      make(map[source.StringID]ty.TraitFnRef),
		provided: make(map[source.StringID]source.Span),
		trait:    name,
	}
	for _, m := range members {
		if m.Provided && m.Kind == ast.MemberFn {
			callees.provided[m.Fn.Name.Name] = m.Fn.Name.Span
		}
	}

	// required members first so that bodies can call any of them
	for _, m := range members {
		if m.Provided {
			continue
		}
		switch m.Kind {
		case ast.MemberFn:
			if len(m.Fn.TypeParams) > 0 {
				c.report(diag.SemaError, m.Fn.Name.Span, "required function '%s' cannot declare type parameters", c.e.Name(m.Fn.Name))
				continue
			}
			ref := decl.NewRef(c.e.Decls.TraitFns.Insert(c.lowerSignature(m.Fn, sc)), m.Fn.Name, m.Fn.Name.Span)
			callees.fns[m.Fn.Name.Name] = ref
			tr.InterfaceSurface = append(tr.InterfaceSurface, ty.InterfaceFn(ref))
		case ast.MemberConst:
			body := c.lowerConstant(m.Const, sc, callees, d.Visibility)
			ref := decl.NewRef(c.e.Decls.Constants.Insert(body), m.Const.Name, m.Const.Name.Span)
			tr.InterfaceSurface = append(tr.InterfaceSurface, ty.InterfaceConstant(ref))
		case ast.MemberType:
			ref := decl.NewRef(c.e.Decls.TraitTypes.Insert(c.lowerAssocType(m.Type, sc)), m.Type.Name, m.Type.Name.Span)
			tr.InterfaceSurface = append(tr.InterfaceSurface, ty.InterfaceType(ref))
		}
	}
	for _, m := range members {
		if !m.Provided {
			continue
		}
		switch m.Kind {
		case ast.MemberFn:
			body := c.lowerFunction(m.Fn, sc, callees, d.Visibility)
			ref := decl.NewRef(c.e.Decls.Functions.Insert(body), m.Fn.Name, m.Fn.Name.Span)
			tr.Items = append(tr.Items, ty.ItemFunction(ref))
		case ast.MemberConst:
			body := c.lowerConstant(m.Const, sc, callees, d.Visibility)
			ref := decl.NewRef(c.e.Decls.Constants.Insert(body), m.Const.Name, m.Const.Name.Span)
			tr.Items = append(tr.Items, ty.ItemConst(ref))
		case ast.MemberType:
			ref := decl.NewRef(c.e.Decls.TraitTypes.Insert(c.lowerAssocType(m.Type, sc)), m.Type.Name, m.Type.Name.Span)
			tr.Items = append(tr.Items, ty.ItemTraitType(ref))
		}
	}

	ref := decl.NewRef(c.e.Decls.Traits.Insert(tr), d.Name, d.Name.Span)
	c.traits[d.Name.Name] = ref
	ferr := c.finalizer(span.ID()).Items(tr.Items)
	span.WithCount("surface", len(tr.InterfaceSurface)).WithCount("items", len(tr.Items))
	if ferr != nil {
		return ref, ferr
	}
	return ref, c.errorsSince(before)
}

// selfParam declares the implicit Self of d. Its constraints are the
// supertraits that name a known trait.
func (c *Checker) selfParam(d *ast.TraitDecl, sc *typeScope) ty.TypeParameter {
	selfName := source.NewIdent(c.e.Strings.InternIdent("Self"), d.Name.Span)
	sc.self = c.e.Types.RegisterTypeParam(selfName.Name, c.owner, 0, true)
	self := ty.TypeParameter{Name: selfName, Type: sc.self, IsSelf: true, Span: d.Name.Span}
	for _, st := range d.Supertraits {
		if !c.knownTrait(st.Name().Name) {
			c.report(diag.SemaTraitSupertraitNotFnd, st.Span, "supertrait '%s' of trait '%s' not found",
				st.String(c.e.Strings), c.e.Name(d.Name))
			continue
		}
		self.Constraints = append(self.Constraints, ty.TraitConstraint{Trait: st.Name(), Span: st.Span})
	}
	return self
}

// uniqueMembers drops members whose name was already used, reporting each.
func (c *Checker) uniqueMembers(members []ast.Member) []ast.Member {
	seen := make(map[source.StringID]source.Span, len(members))
	out := make([]ast.Member, 0, len(members))
	for _, m := range members {
		n := m.Name()
		if prev, ok := seen[n.Name]; ok {
			c.reportDuplicate(diag.SemaTraitDuplicateMember, n.Span, prev, "member", c.e.Name(n))
			continue
		}
		seen[n.Name] = n.Span
		out = append(out, m)
	}
	return out
}

func (c *Checker) knownTrait(name source.StringID) bool {
	if _, ok := c.traits[name]; ok {
		return true
	}
	_, ok := c.declared[name]
	return ok
}
