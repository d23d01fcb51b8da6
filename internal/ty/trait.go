package ty

import (
	"slices"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/hasher"
	"tycore/internal/source"
)

// TraitDecl is a checked generic trait. InterfaceSurface lists the required
// members, Items the provided ones; both hold handles into the DeclStore and
// keep declaration order.
type TraitDecl struct {
	Name             source.Ident
	TypeParams       []TypeParameter
	SelfType         TypeParameter
	InterfaceSurface []InterfaceItem
	Items            []Item
	Supertraits      []ast.Supertrait
	Visibility       ast.Visibility
	Attributes       Attributes
	Span             source.Span
}

func (t TraitDecl) DeclKind() decl.Kind { return decl.KindTrait }

func (t TraitDecl) Clone() TraitDecl {
	t.TypeParams = cloneTypeParams(t.TypeParams)
	t.SelfType = t.SelfType.Clone()
	t.InterfaceSurface = slices.Clone(t.InterfaceSurface)
	t.Items = slices.Clone(t.Items)
	t.Supertraits = slices.Clone(t.Supertraits)
	for i := range t.Supertraits {
		t.Supertraits[i].Path = slices.Clone(t.Supertraits[i].Path)
	}
	t.Attributes = t.Attributes.Clone()
	return t
}

// EqualWith compares name, type parameters, both member sequences (by
// position), supertraits and visibility. The self type is not compared:
// every trait has one and its bounds follow from the supertraits. HashWith
// mirrors this and covers only its name and flag.
func (t TraitDecl) EqualWith(other TraitDecl, e *Engines) bool {
	return t.Name.SameName(other.Name) &&
		EqualSlices(t.TypeParams, other.TypeParams, e) &&
		EqualSlices(t.InterfaceSurface, other.InterfaceSurface, e) &&
		EqualSlices(t.Items, other.Items, e) &&
		slices.EqualFunc(t.Supertraits, other.Supertraits, ast.Supertrait.Equal) &&
		t.Visibility == other.Visibility
}

func (t TraitDecl) HashWith(h *hasher.Hasher, e *Engines) {
	hashIdent(h, t.Name, e)
	HashSlice(h, t.TypeParams, e)
	hashIdent(h, t.SelfType.Name, e)
	h.WriteBool(t.SelfType.IsSelf)
	HashSlice(h, t.InterfaceSurface, e)
	HashSlice(h, t.Items, e)
	h.WriteLen(len(t.Supertraits))
	for _, st := range t.Supertraits {
		h.WriteLen(len(st.Path))
		for _, seg := range st.Path {
			hashIdent(h, seg, e)
		}
	}
	h.WriteUint8(uint8(t.Visibility))
}

func (t TraitDecl) Ident() source.Ident             { return t.Name }
func (t TraitDecl) TypeParameters() []TypeParameter { return t.TypeParams }

// HasSelfTypeParam is always true: a trait is generic over its implementor.
func (t TraitDecl) HasSelfTypeParam() bool { return true }

// ItemKind tags the variant held by InterfaceItem and Item.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemConstant
	ItemType
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemConstant:
		return "const"
	case ItemType:
		return "type"
	default:
		return "invalid"
	}
}

// InterfaceItem is a required trait member. Exactly one handle, chosen by
// Kind, is set.
type InterfaceItem struct {
	Kind     ItemKind
	TraitFn  TraitFnRef
	Constant ConstantRef
	Type     TraitTypeRef
}

func InterfaceFn(r TraitFnRef) InterfaceItem {
	return InterfaceItem{Kind: ItemFn, TraitFn: r}
}

func InterfaceConstant(r ConstantRef) InterfaceItem {
	return InterfaceItem{Kind: ItemConstant, Constant: r}
}

func InterfaceType(r TraitTypeRef) InterfaceItem {
	return InterfaceItem{Kind: ItemType, Type: r}
}

func (it InterfaceItem) EqualWith(other InterfaceItem, e *Engines) bool {
	if it.Kind != other.Kind {
		return false
	}
	switch it.Kind {
	case ItemFn:
		return EqualRefs(it.TraitFn, other.TraitFn, e.Decls.TraitFns, e)
	case ItemConstant:
		return EqualRefs(it.Constant, other.Constant, e.Decls.Constants, e)
	case ItemType:
		return EqualRefs(it.Type, other.Type, e.Decls.TraitTypes, e)
	default:
		panic("ty: invalid interface item kind")
	}
}

func (it InterfaceItem) HashWith(h *hasher.Hasher, e *Engines) {
	h.WriteUint8(uint8(it.Kind))
	switch it.Kind {
	case ItemFn:
		HashRef(h, it.TraitFn, e.Decls.TraitFns, e)
	case ItemConstant:
		HashRef(h, it.Constant, e.Decls.Constants, e)
	case ItemType:
		HashRef(h, it.Type, e.Decls.TraitTypes, e)
	default:
		panic("ty: invalid interface item kind")
	}
}

func (it InterfaceItem) Name() source.Ident {
	switch it.Kind {
	case ItemFn:
		return it.TraitFn.Name()
	case ItemConstant:
		return it.Constant.Name()
	case ItemType:
		return it.Type.Name()
	default:
		panic("ty: invalid interface item kind")
	}
}

func (it InterfaceItem) Span() source.Span {
	switch it.Kind {
	case ItemFn:
		return it.TraitFn.Span()
	case ItemConstant:
		return it.Constant.Span()
	case ItemType:
		return it.Type.Span()
	default:
		panic("ty: invalid interface item kind")
	}
}

// Any returns the kind-tagged identity of the held handle.
func (it InterfaceItem) Any() decl.AnyID {
	switch it.Kind {
	case ItemFn:
		return it.TraitFn.Any()
	case ItemConstant:
		return it.Constant.Any()
	case ItemType:
		return it.Type.Any()
	default:
		panic("ty: invalid interface item kind")
	}
}

// Signature renders the member through the store.
func (it InterfaceItem) Signature(e *Engines) string {
	switch it.Kind {
	case ItemFn:
		return e.Decls.TraitFn(it.TraitFn).Signature(e)
	case ItemConstant:
		return e.Decls.Constant(it.Constant).Signature(e)
	case ItemType:
		return e.Decls.TraitType(it.Type).Signature(e)
	default:
		panic("ty: invalid interface item kind")
	}
}

// Item is a provided trait member. Exactly one handle, chosen by Kind, is set.
type Item struct {
	Kind     ItemKind
	Fn       FunctionRef
	Constant ConstantRef
	Type     TraitTypeRef
}

func ItemFunction(r FunctionRef) Item {
	return Item{Kind: ItemFn, Fn: r}
}

func ItemConst(r ConstantRef) Item {
	return Item{Kind: ItemConstant, Constant: r}
}

func ItemTraitType(r TraitTypeRef) Item {
	return Item{Kind: ItemType, Type: r}
}

func (it Item) EqualWith(other Item, e *Engines) bool {
	if it.Kind != other.Kind {
		return false
	}
	switch it.Kind {
	case ItemFn:
		return EqualRefs(it.Fn, other.Fn, e.Decls.Functions, e)
	case ItemConstant:
		return EqualRefs(it.Constant, other.Constant, e.Decls.Constants, e)
	case ItemType:
		return EqualRefs(it.Type, other.Type, e.Decls.TraitTypes, e)
	default:
		panic("ty: invalid item kind")
	}
}

func (it Item) HashWith(h *hasher.Hasher, e *Engines) {
	h.WriteUint8(uint8(it.Kind))
	switch it.Kind {
	case ItemFn:
		HashRef(h, it.Fn, e.Decls.Functions, e)
	case ItemConstant:
		HashRef(h, it.Constant, e.Decls.Constants, e)
	case ItemType:
		HashRef(h, it.Type, e.Decls.TraitTypes, e)
	default:
		panic("ty: invalid item kind")
	}
}

func (it Item) Name() source.Ident {
	switch it.Kind {
	case ItemFn:
		return it.Fn.Name()
	case ItemConstant:
		return it.Constant.Name()
	case ItemType:
		return it.Type.Name()
	default:
		panic("ty: invalid item kind")
	}
}

func (it Item) Span() source.Span {
	switch it.Kind {
	case ItemFn:
		return it.Fn.Span()
	case ItemConstant:
		return it.Constant.Span()
	case ItemType:
		return it.Type.Span()
	default:
		panic("ty: invalid item kind")
	}
}

func (it Item) Any() decl.AnyID {
	switch it.Kind {
	case ItemFn:
		return it.Fn.Any()
	case ItemConstant:
		return it.Constant.Any()
	case ItemType:
		return it.Type.Any()
	default:
		panic("ty: invalid item kind")
	}
}

func (it Item) Signature(e *Engines) string {
	switch it.Kind {
	case ItemFn:
		return e.Decls.Function(it.Fn).Signature(e)
	case ItemConstant:
		return e.Decls.Constant(it.Constant).Signature(e)
	case ItemType:
		return e.Decls.TraitType(it.Type).Signature(e)
	default:
		panic("ty: invalid item kind")
	}
}

// ReplaceImplementingType binds provided functions to impl. It mutates the
// store entry in place; constants and associated types ignore the binding.
func (it Item) ReplaceImplementingType(e *Engines, impl ImplementingType) {
	switch it.Kind {
	case ItemFn:
		fn := e.Decls.Function(it.Fn)
		fn.Implementing = &impl
		e.Decls.Functions.Replace(it.Fn.ID(), fn)
	case ItemConstant, ItemType:
	default:
		panic("ty: invalid item kind")
	}
}
