package sema

import (
	"fmt"

	"fortio.org/safecast"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// calleeSet is what a body may call: the required functions of the trait
// being checked. provided names members that exist but cannot be called.
type calleeSet struct {
	fns      map[source.StringID]ty.TraitFnRef
	provided map[source.StringID]source.Span
	trait    string
}

func (c *Checker) declareTypeParams(names []source.Ident, sc *typeScope, offset uint32) []ty.TypeParameter {
	if len(names) == 0 {
		return nil
	}
	out := make([]ty.TypeParameter, 0, len(names))
	seen := make(map[source.StringID]source.Span, len(names))
	for i, name := range names {
		if prev, ok := seen[name.Name]; ok {
			c.reportDuplicate(diag.SemaDuplicateSymbol, name.Span, prev, "type parameter", c.e.Name(name))
			continue
		}
		if c.e.Name(name) == "Self" {
			c.report(diag.SemaDuplicateSymbol, name.Span, "'Self' is implicitly declared by every trait")
			continue
		}
		seen[name.Name] = name.Span
		index, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("type param index overflow: %w", err))
		}
		id := c.e.Types.RegisterTypeParam(name.Name, c.owner, offset+index, false)
		sc.params[name.Name] = id
		out = append(out, ty.TypeParameter{Name: name, Type: id, Span: name.Span})
	}
	return out
}

func (c *Checker) lowerParams(params []ast.Param, sc *typeScope) []ty.FnParam {
	if len(params) == 0 {
		return nil
	}
	out := make([]ty.FnParam, len(params))
	for i, p := range params {
		out[i] = ty.FnParam{
			Name:    p.Name,
			Type:    c.resolveType(p.Type, sc),
			Mutable: p.Mutable,
			Span:    p.Name.Span,
		}
	}
	return out
}

// lowerSignature lowers a required function.
func (c *Checker) lowerSignature(fn *ast.FnDecl, sc *typeScope) ty.TraitFn {
	return ty.TraitFn{
		Name:       fn.Name,
		Params:     c.lowerParams(fn.Params, sc),
		ReturnType: c.resolveType(fn.Returns, sc),
		Attributes: ty.NewAttributes(fn.Attrs),
		Span:       fn.Span,
	}
}

// lowerFunction lowers a function with a body. Generic functions get their
// own scope nested in sc.
func (c *Checker) lowerFunction(fn *ast.FnDecl, sc *typeScope, callees *calleeSet, vis ast.Visibility) ty.Function {
	if len(fn.TypeParams) > 0 {
		c.owner++
		sc = sc.child()
	}
	out := ty.Function{
		Name:       fn.Name,
		TypeParams: c.declareTypeParams(fn.TypeParams, sc, 0),
		Params:     c.lowerParams(fn.Params, sc),
		ReturnType: c.resolveType(fn.Returns, sc),
		Visibility: vis,
		Attributes: ty.NewAttributes(fn.Attrs),
		Span:       fn.Span,
	}
	// the last expression is the result; an empty body is an external one
	out.Body = c.lowerBody(fn.Body, sc, callees)
	if n := len(out.Body); n > 0 {
		last := out.Body[n-1]
		c.unify(out.ReturnType, last.Type, last.Span)
	}
	return out
}

func (c *Checker) lowerBody(body []ast.Expr, sc *typeScope, callees *calleeSet) []ty.Expr {
	if len(body) == 0 {
		return nil
	}
	out := make([]ty.Expr, len(body))
	for i := range body {
		out[i] = c.lowerExpr(&body[i], sc, callees)
	}
	return out
}

// lowerExpr types one body expression. A call takes the return type of its
// callee; the annotation, `_` by default, is unified with it.
func (c *Checker) lowerExpr(x *ast.Expr, sc *typeScope, callees *calleeSet) ty.Expr {
	out := ty.Expr{
		Kind: ty.ExprLiteral,
		Type: c.resolveType(x.Type, sc),
		Span: x.Span,
	}
	switch x.Kind {
	case ast.ExprLiteral:
		out.Literal = x.Value
	case ast.ExprCall:
		out.Kind = ty.ExprCall
		out.Callee = decl.NewRef(decl.ID[ty.TraitFn](0), x.Callee, x.Span)
		target, ok := callees.fns[x.Callee.Name]
		if !ok {
			c.reportUnknownCallee(x.Callee, callees)
			return out
		}
		out.Callee = decl.NewRef(target.ID(), x.Callee, x.Span)
		ret := c.e.Decls.TraitFn(target).ReturnType
		c.unify(out.Type, ret, x.Span)
	}
	return out
}

func (c *Checker) reportUnknownCallee(name source.Ident, callees *calleeSet) {
	fn := c.e.Name(name)
	msg := fmt.Sprintf("unknown function '%s' in trait '%s'", fn, callees.trait)
	b := diag.ReportError(c.handler, diag.SemaUnresolvedSymbol, name.Span, msg)
	if b == nil {
		return
	}
	if prev, ok := callees.provided[name.Name]; ok {
		b.WithNote(prev, fmt.Sprintf("'%s' is a provided function; bodies may only call required functions", fn))
	}
	b.Emit()
}

// lowerConstant lowers a constant; the value, when present, must have the
// declared type.
func (c *Checker) lowerConstant(cd *ast.ConstDecl, sc *typeScope, callees *calleeSet, vis ast.Visibility) ty.Constant {
	out := ty.Constant{
		Name:       cd.Name,
		Type:       c.resolveType(cd.Type, sc),
		Visibility: vis,
		Attributes: ty.NewAttributes(cd.Attrs),
		Span:       cd.Span,
	}
	if cd.Value != nil {
		v := c.lowerExpr(cd.Value, sc, callees)
		c.unify(out.Type, v.Type, v.Span)
		out.Value = &v
	}
	return out
}

func (c *Checker) lowerAssocType(td *ast.TypeDecl, sc *typeScope) ty.TraitType {
	out := ty.TraitType{
		Name:       td.Name,
		Type:       types.NoTypeID,
		Attributes: ty.NewAttributes(td.Attrs),
		Span:       td.Span,
	}
	if td.Default != nil {
		out.Type = c.resolveType(*td.Default, sc)
	}
	return out
}
