package types

import (
	"tycore/internal/source"
)

// TypeParamInfo stores metadata about a generic type parameter.
type TypeParamInfo struct {
	Name   source.StringID
	Owner  uint32
	Index  uint32
	IsSelf bool
}

// VarInfo stores the binding of an inference variable.
type VarInfo struct {
	Binding TypeID
}

// RegisterTypeParam allocates a new generic parameter descriptor.
// Each call yields a fresh identity even for identical names.
func (in *Interner) RegisterTypeParam(name source.StringID, owner, index uint32, isSelf bool) TypeID {
	in.params = append(in.params, TypeParamInfo{
		Name:   name,
		Owner:  owner,
		Index:  index,
		IsSelf: isSelf,
	})
	slot := slotOf(len(in.params)-1, "type param index")
	return in.internRaw(Type{Kind: KindGenericParam, Payload: slot})
}

// TypeParamInfo returns metadata for the provided generic parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGenericParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	info := in.params[tt.Payload]
	return &info, true
}

// NewVar allocates an unbound inference variable.
func (in *Interner) NewVar() TypeID {
	in.vars = append(in.vars, VarInfo{})
	slot := slotOf(len(in.vars)-1, "type var index")
	return in.internRaw(Type{Kind: KindVar, Payload: slot})
}

// VarBinding returns the type a variable is bound to, if any.
func (in *Interner) VarBinding(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVar {
		return NoTypeID, false
	}
	b := in.vars[tt.Payload].Binding
	return b, b != NoTypeID
}

// BindVar binds an unbound variable to target. It refuses to rebind, to bind
// a variable to itself, or to create a cyclic binding.
func (in *Interner) BindVar(v, target TypeID) bool {
	tt, ok := in.Lookup(v)
	if !ok || tt.Kind != KindVar || target == NoTypeID {
		return false
	}
	if in.vars[tt.Payload].Binding != NoTypeID {
		return false
	}
	resolved := in.Resolve(target)
	if resolved == v || in.occurs(v, resolved) {
		return false
	}
	in.vars[tt.Payload].Binding = resolved
	return true
}

func (in *Interner) occurs(v, id TypeID) bool {
	if v == id {
		return true
	}
	found := false
	in.walkChildren(id, func(child TypeID) {
		if !found && in.occurs(v, in.Resolve(child)) {
			found = true
		}
	})
	return found
}
