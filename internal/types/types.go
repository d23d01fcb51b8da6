package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindString
	KindInt
	KindUint
	// KindGenericParam is a declared type parameter (including a trait's Self).
	KindGenericParam
	// KindVar is an inference variable; it may be bound to another type later.
	KindVar
	KindTuple
	KindFn
	// KindNamed is a nominal type with optional type arguments.
	KindNamed
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindUnit:         "unit",
	KindBool:         "bool",
	KindString:       "string",
	KindInt:          "int",
	KindUint:         "uint",
	KindGenericParam: "generic",
	KindVar:          "var",
	KindTuple:        "tuple",
	KindFn:           "fn",
	KindNamed:        "named",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Width captures the precision of integers.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type.
// Payload indexes the side table that belongs to the kind (params, vars,
// tuples, fns, named).
type Type struct {
	Kind    Kind
	Width   Width
	Payload uint32
}

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}
