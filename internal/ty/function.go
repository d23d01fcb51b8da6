package ty

import (
	"fmt"
	"slices"
	"strings"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/hasher"
	"tycore/internal/source"
	"tycore/internal/types"
)

type (
	FunctionRef  = decl.Ref[Function]
	TraitFnRef   = decl.Ref[TraitFn]
	ConstantRef  = decl.Ref[Constant]
	TraitTypeRef = decl.Ref[TraitType]
	TraitRef     = decl.Ref[TraitDecl]
)

// ImplementingType binds a provided function to the impl it serves.
type ImplementingType struct {
	Trait TraitRef
	For   types.TypeID
}

// Function is a function with a body: a provided trait function or an impl method.
type Function struct {
	Name       source.Ident
	TypeParams []TypeParameter
	Params     []FnParam
	ReturnType types.TypeID
	Body       []Expr
	Visibility ast.Visibility
	// Implementing is nil until an impl binds the function.
	Implementing *ImplementingType
	Attributes   Attributes
	Span         source.Span
	// Finalized is set once every type in the body is resolved.
	Finalized bool
}

func (f Function) DeclKind() decl.Kind { return decl.KindFunction }

func (f Function) Clone() Function {
	f.TypeParams = cloneTypeParams(f.TypeParams)
	f.Params = slices.Clone(f.Params)
	f.Body = slices.Clone(f.Body)
	if f.Implementing != nil {
		impl := *f.Implementing
		f.Implementing = &impl
	}
	f.Attributes = f.Attributes.Clone()
	return f
}

func (f Function) EqualWith(other Function, e *Engines) bool {
	return f.Name.SameName(other.Name) &&
		f.Visibility == other.Visibility &&
		EqualSlices(f.TypeParams, other.TypeParams, e) &&
		EqualSlices(f.Params, other.Params, e) &&
		e.Types.Equal(f.ReturnType, other.ReturnType) &&
		EqualSlices(f.Body, other.Body, e)
}

func (f Function) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, f.Name, e)
	h.WriteUint8(uint8(f.Visibility))
	HashSlice(h, f.TypeParams, e)
	HashSlice(h, f.Params, e)
	e.Types.Hash(h, f.ReturnType)
	HashSlice(h, f.Body, e)
}

// Subst returns f with every type substituted.
func (f Function) Subst(m *types.SubstMap, e *Engines) Function {
	for i := range f.TypeParams {
		f.TypeParams[i].SubstTypes(m, e)
	}
	substParams(f.Params, m, e)
	f.ReturnType = e.Types.Apply(f.ReturnType, m)
	substBody(f.Body, m, e)
	if f.Implementing != nil {
		f.Implementing.For = e.Types.Apply(f.Implementing.For, m)
	}
	return f
}

// ReplaceDecls returns f with its callees rewired through mapping.
func (f Function) ReplaceDecls(mapping *decl.Mapping) Function {
	rewireBody(f.Body, mapping)
	return f
}

func (f Function) Ident() source.Ident             { return f.Name }
func (f Function) TypeParameters() []TypeParameter { return f.TypeParams }
func (f Function) HasSelfTypeParam() bool          { return false }

// Signature renders `fn name(p: T, ...) -> R`.
func (f Function) Signature(e *Engines) string {
	return signature(e, f.Name, f.Params, f.ReturnType)
}

// TraitFn is a required function signature of a trait.
type TraitFn struct {
	Name       source.Ident
	Params     []FnParam
	ReturnType types.TypeID
	Attributes Attributes
	Span       source.Span
}

func (f TraitFn) DeclKind() decl.Kind { return decl.KindTraitFn }

func (f TraitFn) Clone() TraitFn {
	f.Params = slices.Clone(f.Params)
	f.Attributes = f.Attributes.Clone()
	return f
}

func (f TraitFn) EqualWith(other TraitFn, e *Engines) bool {
	return f.Name.SameName(other.Name) &&
		EqualSlices(f.Params, other.Params, e) &&
		e.Types.Equal(f.ReturnType, other.ReturnType)
}

func (f TraitFn) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, f.Name, e)
	HashSlice(h, f.Params, e)
	e.Types.Hash(h, f.ReturnType)
}

func (f TraitFn) Subst(m *types.SubstMap, e *Engines) TraitFn {
	substParams(f.Params, m, e)
	f.ReturnType = e.Types.Apply(f.ReturnType, m)
	return f
}

// ReplaceDecls is the identity: signatures reference no declarations.
func (f TraitFn) ReplaceDecls(*decl.Mapping) TraitFn { return f }

// FnType returns the signature as a function type.
func (f TraitFn) FnType(e *Engines) types.TypeID {
	return e.Types.RegisterFn(paramTypes(f.Params), f.ReturnType)
}

func (f TraitFn) Signature(e *Engines) string {
	return signature(e, f.Name, f.Params, f.ReturnType)
}

func signature(e *Engines, name source.Ident, params []FnParam, ret types.TypeID) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s(", e.Name(name))
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Mutable {
			sb.WriteString("mut ")
		}
		fmt.Fprintf(&sb, "%s: %s", e.Name(p.Name), e.Types.Label(p.Type))
	}
	fmt.Fprintf(&sb, ") -> %s", e.Types.Label(ret))
	return sb.String()
}
