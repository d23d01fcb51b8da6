package ty

import (
	"fmt"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/hasher"
	"tycore/internal/source"
	"tycore/internal/types"
)

// Constant is an associated constant. Value is nil for required constants.
type Constant struct {
	Name       source.Ident
	Type       types.TypeID
	Value      *Expr
	Visibility ast.Visibility
	Attributes Attributes
	Span       source.Span
	Finalized  bool
}

func (c Constant) DeclKind() decl.Kind { return decl.KindConstant }

func (c Constant) Clone() Constant {
	if c.Value != nil {
		v := *c.Value
		c.Value = &v
	}
	c.Attributes = c.Attributes.Clone()
	return c
}

func (c Constant) EqualWith(other Constant, e *Engines) bool {
	if !c.Name.SameName(other.Name) || c.Visibility != other.Visibility || !e.Types.Equal(c.Type, other.Type) {
		return false
	}
	if (c.Value == nil) != (other.Value == nil) {
		return false
	}
	return c.Value == nil || c.Value.EqualWith(*other.Value, e)
}

func (c Constant) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, c.Name, e)
	h.WriteUint8(uint8(c.Visibility))
	e.Types.Hash(h, c.Type)
	h.WriteBool(c.Value != nil)
	if c.Value != nil {
		c.Value.HashWith(h, e)
	}
}

func (c Constant) Subst(m *types.SubstMap, e *Engines) Constant {
	c.Type = e.Types.Apply(c.Type, m)
	if c.Value != nil {
		c.Value.Type = e.Types.Apply(c.Value.Type, m)
	}
	return c
}

func (c Constant) ReplaceDecls(mapping *decl.Mapping) Constant {
	if c.Value != nil && c.Value.Kind == ExprCall {
		if next, ok := decl.Rewire(mapping, c.Value.Callee); ok {
			c.Value.Callee = next
		}
	}
	return c
}

func (c Constant) Signature(e *Engines) string {
	if c.Value != nil {
		return fmt.Sprintf("const %s: %s = %s", e.Name(c.Name), e.Types.Label(c.Type), c.Value.Literal)
	}
	return fmt.Sprintf("const %s: %s", e.Name(c.Name), e.Types.Label(c.Type))
}

// TraitType is an associated type. Type is types.NoTypeID while abstract.
type TraitType struct {
	Name       source.Ident
	Type       types.TypeID
	Attributes Attributes
	Span       source.Span
}

func (t TraitType) DeclKind() decl.Kind { return decl.KindTraitType }

func (t TraitType) Clone() TraitType {
	t.Attributes = t.Attributes.Clone()
	return t
}

func (t TraitType) EqualWith(other TraitType, e *Engines) bool {
	return t.Name.SameName(other.Name) && e.Types.Equal(t.Type, other.Type)
}

func (t TraitType) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, t.Name, e)
	e.Types.Hash(h, t.Type)
}

func (t TraitType) Subst(m *types.SubstMap, e *Engines) TraitType {
	t.Type = e.Types.Apply(t.Type, m)
	return t
}

func (t TraitType) ReplaceDecls(*decl.Mapping) TraitType { return t }

func (t TraitType) Signature(e *Engines) string {
	if t.Type == types.NoTypeID {
		return "type " + e.Name(t.Name)
	}
	return fmt.Sprintf("type %s = %s", e.Name(t.Name), e.Types.Label(t.Type))
}
