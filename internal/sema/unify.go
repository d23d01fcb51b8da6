package sema

import (
	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/types"
)

// unify makes a and b equal by binding inference variables. It reports a
// mismatch at span when the shapes disagree. NoTypeID unifies with anything
// since it stands for an already reported error.
func (c *Checker) unify(expected, found types.TypeID, span source.Span) bool {
	if c.unifyTypes(expected, found) {
		return true
	}
	c.report(diag.SemaTypeMismatch, span, "type mismatch: expected %s, found %s", c.label(expected), c.label(found))
	return false
}

func (c *Checker) unifyTypes(a, b types.TypeID) bool {
	in := c.e.Types
	a, b = in.Resolve(a), in.Resolve(b)
	if a == types.NoTypeID || b == types.NoTypeID || in.Equal(a, b) {
		return true
	}
	ta, tb := in.MustLookup(a), in.MustLookup(b)
	if ta.Kind == types.KindVar {
		return in.BindVar(a, b)
	}
	if tb.Kind == types.KindVar {
		return in.BindVar(b, a)
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case types.KindTuple:
		ia, _ := in.TupleInfo(a)
		ib, _ := in.TupleInfo(b)
		return c.unifyLists(ia.Elems, ib.Elems)
	case types.KindFn:
		ia, _ := in.FnInfo(a)
		ib, _ := in.FnInfo(b)
		return c.unifyLists(ia.Params, ib.Params) && c.unifyTypes(ia.Result, ib.Result)
	case types.KindNamed:
		ia, _ := in.NamedInfo(a)
		ib, _ := in.NamedInfo(b)
		return ia.Name == ib.Name && c.unifyLists(ia.Args, ib.Args)
	default:
		return false
	}
}

func (c *Checker) unifyLists(a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	// copies: binding a variable may grow the interner's side tables
	a, b = append([]types.TypeID(nil), a...), append([]types.TypeID(nil), b...)
	for i := range a {
		if !c.unifyTypes(a[i], b[i]) {
			return false
		}
	}
	return true
}
