package ty

import (
	"tycore/internal/decl"
	"tycore/internal/hasher"
	"tycore/internal/source"
	"tycore/internal/types"
)

type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprCall
)

// Expr is a typed body statement. Type may be an inference variable until
// finalization resolves it.
type Expr struct {
	Kind    ExprKind
	Type    types.TypeID
	Literal string
	// Callee is set for calls and points into the trait's interface surface.
	Callee TraitFnRef
	Span   source.Span
}

func (x Expr) EqualWith(other Expr, e *Engines) bool {
	if x.Kind != other.Kind || x.Literal != other.Literal || !e.Types.Equal(x.Type, other.Type) {
		return false
	}
	if x.Kind == ExprCall {
		return EqualRefs(x.Callee, other.Callee, e.Decls.TraitFns, e)
	}
	return true
}

func (x Expr) HashWith(h *hasher.Hasher, e *Engines) {
	h.WriteUint8(uint8(x.Kind))
	h.WriteString(x.Literal)
	e.Types.Hash(h, x.Type)
	if x.Kind == ExprCall {
		// the callee name is enough: equal calls have equal callee names
		hashIdent(h, x.Callee.Name(), e)
	}
}

func substBody(body []Expr, m *types.SubstMap, e *Engines) {
	for i := range body {
		body[i].Type = e.Types.Apply(body[i].Type, m)
	}
}

// rewireBody points callees at their replacements recorded in mapping.
func rewireBody(body []Expr, mapping *decl.Mapping) {
	for i := range body {
		if body[i].Kind != ExprCall {
			continue
		}
		if next, ok := decl.Rewire(mapping, body[i].Callee); ok {
			body[i].Callee = next
		}
	}
}
