package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"tycore/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	U8      TypeID
	U16     TypeID
	U32     TypeID
	U64     TypeID
	I8      TypeID
	I16     TypeID
	I32     TypeID
	I64     TypeID
}

// Interner provides stable TypeIDs. Primitive descriptors are deduplicated by
// value, composite ones (tuples, fns, named) by their element list. Generic
// parameters and inference variables are always fresh.
type Interner struct {
	Strings *source.Interner

	types     []Type
	index     map[Type]TypeID
	composite map[string]TypeID
	builtins  Builtins

	params []TypeParamInfo
	vars   []VarInfo
	tuples []TupleInfo
	fns    []FnInfo
	named  []NamedInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
// Names of generic params and nominal types are resolved through strings.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		Strings:   strings,
		index:     make(map[Type]TypeID, 64),
		composite: make(map[string]TypeID, 64),
		params:    []TypeParamInfo{{}}, // slot 0 reserved
		vars:      []VarInfo{{}},
		tuples:    []TupleInfo{{}},
		fns:       []FnInfo{{}},
		named:     []NamedInfo{{}},
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.Uint = in.Intern(MakeUint(WidthAny))
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.I8 = in.Intern(MakeInt(Width8))
	in.builtins.I16 = in.Intern(MakeInt(Width16))
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided primitive descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	if t.Payload == 0 {
		in.index[t] = id
	}
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Len reports the number of interned types, including the invalid sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

func compositeKey(kind Kind, head uint32, elems []TypeID, tail TypeID) string {
	var b strings.Builder
	b.WriteString(kind.String())
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(head), 10))
	for _, e := range elems {
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e), 10))
	}
	b.WriteString("->")
	b.WriteString(strconv.FormatUint(uint64(tail), 10))
	return b.String()
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return slot
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}
