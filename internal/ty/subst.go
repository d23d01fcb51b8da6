package ty

import (
	"tycore/internal/decl"
	"tycore/internal/source"
	"tycore/internal/types"
)

// Substitutable is a body the substitution engine can instantiate.
// Both methods work on the receiver copy and return it.
type Substitutable[T any] interface {
	Node[T]
	Subst(m *types.SubstMap, e *Engines) T
	ReplaceDecls(mapping *decl.Mapping) T
}

// InsertMode selects how SubstAndInsert stores the clone.
type InsertMode uint8

const (
	// InsertStandalone stores the clone without a parent link.
	InsertStandalone InsertMode = iota
	// InsertWithParent links the clone to the template entry.
	InsertWithParent
)

// SubstAndInsert clones the body behind r, substitutes it with m, rewires
// its declaration references through rewire (may be nil) and stores the
// result as a new entry. The template entry is never written.
func SubstAndInsert[T Substitutable[T]](
	arena *decl.Arena[T],
	r decl.Ref[T],
	m *types.SubstMap,
	rewire *decl.Mapping,
	mode InsertMode,
	e *Engines,
) decl.Ref[T] {
	body := arena.Get(r.ID()).Subst(m, e)
	if rewire != nil {
		body = body.ReplaceDecls(rewire)
	}
	var id decl.ID[T]
	switch mode {
	case InsertStandalone:
		id = arena.Insert(body)
	case InsertWithParent:
		id = arena.InsertWithParent(body, r.ID())
	default:
		panic("ty: invalid insert mode")
	}
	return r.WithID(id)
}

// MonomorphizeHelper is the capability surface of generic declarations.
type MonomorphizeHelper interface {
	Ident() source.Ident
	TypeParameters() []TypeParameter
	HasSelfTypeParam() bool
}

var (
	_ MonomorphizeHelper = TraitDecl{}
	_ MonomorphizeHelper = Function{}
)
