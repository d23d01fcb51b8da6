package ty

import (
	"slices"

	"tycore/internal/hasher"
	"tycore/internal/source"
	"tycore/internal/types"
)

// TraitConstraint is a bound `T: Trait<Args...>` on a type parameter.
type TraitConstraint struct {
	Trait source.Ident
	Args  []types.TypeID
	Span  source.Span
}

func (c TraitConstraint) EqualWith(other TraitConstraint, e *Engines) bool {
	return c.Trait.SameName(other.Trait) && e.Types.EqualList(c.Args, other.Args)
}

func (c TraitConstraint) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, c.Trait, e)
	e.Types.HashList(h, c.Args)
}

// TypeParameter is a generic parameter of a trait or function. Type is the
// parameter's own TypeID until substitution replaces it.
type TypeParameter struct {
	Name        source.Ident
	Type        types.TypeID
	Constraints []TraitConstraint
	IsSelf      bool
	Span        source.Span
}

func (p TypeParameter) Clone() TypeParameter {
	p.Constraints = slices.Clone(p.Constraints)
	for i := range p.Constraints {
		p.Constraints[i].Args = slices.Clone(p.Constraints[i].Args)
	}
	return p
}

func (p TypeParameter) EqualWith(other TypeParameter, e *Engines) bool {
	return p.Name.SameName(other.Name) &&
		p.IsSelf == other.IsSelf &&
		e.Types.Equal(p.Type, other.Type) &&
		EqualSlices(p.Constraints, other.Constraints, e)
}

func (p TypeParameter) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, p.Name, e)
	h.WriteBool(p.IsSelf)
	e.Types.Hash(h, p.Type)
	HashSlice(h, p.Constraints, e)
}

// SubstTypes rewrites the parameter and its bounds in place.
func (p *TypeParameter) SubstTypes(m *types.SubstMap, e *Engines) {
	p.Type = e.Types.Apply(p.Type, m)
	for i := range p.Constraints {
		p.Constraints[i].Args = e.Types.ApplyList(p.Constraints[i].Args, m)
	}
}

func cloneTypeParams(ps []TypeParameter) []TypeParameter {
	if ps == nil {
		return nil
	}
	out := make([]TypeParameter, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// FnParam is one function parameter.
type FnParam struct {
	Name    source.Ident
	Type    types.TypeID
	Mutable bool
	Span    source.Span
}

func (p FnParam) EqualWith(other FnParam, e *Engines) bool {
	return p.Name.SameName(other.Name) && p.Mutable == other.Mutable && e.Types.Equal(p.Type, other.Type)
}

func (p FnParam) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, p.Name, e)
	h.WriteBool(p.Mutable)
	e.Types.Hash(h, p.Type)
}

func substParams(ps []FnParam, m *types.SubstMap, e *Engines) {
	for i := range ps {
		ps[i].Type = e.Types.Apply(ps[i].Type, m)
	}
}

func paramTypes(ps []FnParam) []types.TypeID {
	out := make([]types.TypeID, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}
