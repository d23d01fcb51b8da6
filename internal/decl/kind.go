package decl

import "fmt"

// Kind identifies the arena a declaration lives in.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFunction
	KindTraitFn
	KindConstant
	KindTraitType
	KindTrait
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindFunction:
		return "fn"
	case KindTraitFn:
		return "trait_fn"
	case KindConstant:
		return "const"
	case KindTraitType:
		return "type"
	case KindTrait:
		return "trait"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Body is implemented by every declaration stored in an Arena.
// Clone must return a copy that shares no mutable state with the receiver.
type Body[T any] interface {
	Clone() T
	DeclKind() Kind
}

// ID addresses a body of type T inside its arena.
type ID[T Body[T]] uint32

// IsValid reports whether the ID refers to an allocated entry.
func (id ID[T]) IsValid() bool { return id != 0 }

// Any erases the body type, keeping the kind.
func (id ID[T]) Any() AnyID {
	var zero T
	return AnyID{Kind: zero.DeclKind(), Index: uint32(id)}
}

// AnyID is a kind-tagged identity usable as a map key across arenas.
type AnyID struct {
	Kind  Kind
	Index uint32
}

func (a AnyID) String() string {
	return fmt.Sprintf("%s#%d", a.Kind, a.Index)
}
