package sema

import (
	"tycore/internal/ast"
	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/types"
)

// typeScope is the set of generic names visible while resolving a type.
type typeScope struct {
	outer  *typeScope
	self   types.TypeID
	params map[source.StringID]types.TypeID
}

func (s *typeScope) child() *typeScope {
	return &typeScope{outer: s, params: make(map[source.StringID]types.TypeID)}
}

func (s *typeScope) lookup(name source.StringID) (types.TypeID, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if id, ok := sc.params[name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

func (s *typeScope) selfType() types.TypeID {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.self != types.NoTypeID {
			return sc.self
		}
	}
	return types.NoTypeID
}

func (c *Checker) builtinType(name string) (types.TypeID, bool) {
	b := c.e.Types.Builtins()
	switch name {
	case "bool":
		return b.Bool, true
	case "str":
		return b.String, true
	case "int":
		return b.Int, true
	case "uint":
		return b.Uint, true
	case "u8":
		return b.U8, true
	case "u16":
		return b.U16, true
	case "u32":
		return b.U32, true
	case "u64":
		return b.U64, true
	case "i8":
		return b.I8, true
	case "i16":
		return b.I16, true
	case "i32":
		return b.I32, true
	case "i64":
		return b.I64, true
	default:
		return types.NoTypeID, false
	}
}

// resolveType interns te. Malformed expressions were reported by the decoder
// and resolve to NoTypeID without a second diagnostic.
func (c *Checker) resolveType(te ast.TypeExpr, sc *typeScope) types.TypeID {
	in := c.e.Types
	switch te.Kind {
	case ast.TypeExprUnit:
		return in.Builtins().Unit
	case ast.TypeExprInfer:
		return in.NewVar()
	case ast.TypeExprTuple:
		elems, ok := c.resolveTypes(te.Args, sc)
		if !ok {
			return types.NoTypeID
		}
		return in.RegisterTuple(elems)
	case ast.TypeExprFn:
		params, ok := c.resolveTypes(te.Args, sc)
		if !ok || te.Result == nil {
			return types.NoTypeID
		}
		result := c.resolveType(*te.Result, sc)
		if result == types.NoTypeID {
			return types.NoTypeID
		}
		return in.RegisterFn(params, result)
	case ast.TypeExprPath:
		return c.resolvePath(te, sc)
	default:
		return types.NoTypeID
	}
}

func (c *Checker) resolvePath(te ast.TypeExpr, sc *typeScope) types.TypeID {
	name := c.e.Name(te.Name)
	if _, ok := c.nominal[te.Name.Name]; ok {
		args, ok := c.resolveTypes(te.Args, sc)
		if !ok {
			return types.NoTypeID
		}
		return c.e.Types.RegisterNamed(te.Name.Name, args)
	}

	var id types.TypeID
	switch {
	case name == "Self":
		id = sc.selfType()
		if id == types.NoTypeID {
			c.report(diag.SemaUnresolvedSymbol, te.Span, "'Self' is only available inside a trait or impl")
			return types.NoTypeID
		}
	default:
		var ok bool
		if id, ok = sc.lookup(te.Name.Name); !ok {
			if id, ok = c.builtinType(name); !ok {
				c.report(diag.SemaUnresolvedSymbol, te.Span, "unknown type '%s'", name)
				return types.NoTypeID
			}
		}
	}
	if len(te.Args) > 0 {
		c.report(diag.SemaTypeMismatch, te.Span, "type '%s' does not take type arguments", name)
		return types.NoTypeID
	}
	return id
}

func (c *Checker) resolveTypes(list []ast.TypeExpr, sc *typeScope) ([]types.TypeID, bool) {
	out := make([]types.TypeID, len(list))
	ok := true
	for i, te := range list {
		out[i] = c.resolveType(te, sc)
		ok = ok && out[i] != types.NoTypeID
	}
	return out, ok
}
