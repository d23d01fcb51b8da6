package types

import (
	"tycore/internal/source"
)

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// NamedInfo stores a nominal type and its type arguments.
type NamedInfo struct {
	Name source.StringID
	Args []TypeID
}

// RegisterTuple creates or finds a tuple type with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	key := compositeKey(KindTuple, 0, elems, NoTypeID)
	if id, ok := in.composite[key]; ok {
		return id
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: cloneTypeArgs(elems)})
	id := in.internRaw(Type{Kind: KindTuple, Payload: slotOf(len(in.tuples)-1, "tuple info")})
	in.composite[key] = id
	return id
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	key := compositeKey(KindFn, 0, params, result)
	if id, ok := in.composite[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: cloneTypeArgs(params), Result: result})
	id := in.internRaw(Type{Kind: KindFn, Payload: slotOf(len(in.fns)-1, "fn info")})
	in.composite[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// RegisterNamed creates or finds a nominal type instance.
func (in *Interner) RegisterNamed(name source.StringID, args []TypeID) TypeID {
	key := compositeKey(KindNamed, uint32(name), args, NoTypeID)
	if id, ok := in.composite[key]; ok {
		return id
	}
	in.named = append(in.named, NamedInfo{Name: name, Args: cloneTypeArgs(args)})
	id := in.internRaw(Type{Kind: KindNamed, Payload: slotOf(len(in.named)-1, "named info")})
	in.composite[key] = id
	return id
}

// NamedInfo returns metadata for a nominal TypeID.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed || int(tt.Payload) >= len(in.named) {
		return nil, false
	}
	return &in.named[tt.Payload], true
}

// walkChildren calls fn for every directly nested TypeID.
func (in *Interner) walkChildren(id TypeID, fn func(TypeID)) {
	tt, ok := in.Lookup(id)
	if !ok {
		return
	}
	switch tt.Kind {
	case KindTuple:
		for _, e := range in.tuples[tt.Payload].Elems {
			fn(e)
		}
	case KindFn:
		info := in.fns[tt.Payload]
		for _, p := range info.Params {
			fn(p)
		}
		fn(info.Result)
	case KindNamed:
		for _, a := range in.named[tt.Payload].Args {
			fn(a)
		}
	default:
	}
}
