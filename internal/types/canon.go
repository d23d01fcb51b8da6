package types

import (
	"tycore/internal/hasher"
)

// Resolve canonicalizes id: bound inference variables are replaced by their
// targets, recursively through composite types. Unbound variables resolve to
// themselves.
func (in *Interner) Resolve(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindVar:
		if b := in.vars[tt.Payload].Binding; b != NoTypeID {
			return in.Resolve(b)
		}
		return id
	case KindTuple:
		elems, changed := in.resolveList(in.tuples[tt.Payload].Elems)
		if !changed {
			return id
		}
		return in.RegisterTuple(elems)
	case KindFn:
		info := in.fns[tt.Payload]
		params, changed := in.resolveList(info.Params)
		result := in.Resolve(info.Result)
		if !changed && result == info.Result {
			return id
		}
		return in.RegisterFn(params, result)
	case KindNamed:
		info := in.named[tt.Payload]
		args, changed := in.resolveList(info.Args)
		if !changed {
			return id
		}
		return in.RegisterNamed(info.Name, args)
	default:
		return id
	}
}

func (in *Interner) resolveList(ids []TypeID) ([]TypeID, bool) {
	out := make([]TypeID, len(ids))
	changed := false
	for i, id := range ids {
		out[i] = in.Resolve(id)
		changed = changed || out[i] != id
	}
	return out, changed
}

// HasUnbound reports whether id still mentions an unbound inference variable
// after resolution.
func (in *Interner) HasUnbound(id TypeID) bool {
	r := in.Resolve(id)
	tt, ok := in.Lookup(r)
	if !ok {
		return false
	}
	if tt.Kind == KindVar {
		return true
	}
	found := false
	in.walkChildren(r, func(child TypeID) {
		found = found || in.HasUnbound(child)
	})
	return found
}

// Equal compares two types modulo canonicalization. Generic parameters are
// equal when they carry the same name and self-ness, so the T of two
// separately checked but identical declarations compares equal.
func (in *Interner) Equal(a, b TypeID) bool {
	ra, rb := in.Resolve(a), in.Resolve(b)
	if ra == rb {
		return true
	}
	ta, okA := in.Lookup(ra)
	tb, okB := in.Lookup(rb)
	if !okA || !okB || ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindUnit, KindBool, KindString:
		return true
	case KindInt, KindUint:
		return ta.Width == tb.Width
	case KindGenericParam:
		pa, pb := in.params[ta.Payload], in.params[tb.Payload]
		return pa.Name == pb.Name && pa.IsSelf == pb.IsSelf
	case KindVar:
		return false
	case KindTuple:
		return in.equalList(in.tuples[ta.Payload].Elems, in.tuples[tb.Payload].Elems)
	case KindFn:
		fa, fb := in.fns[ta.Payload], in.fns[tb.Payload]
		return in.equalList(fa.Params, fb.Params) && in.Equal(fa.Result, fb.Result)
	case KindNamed:
		na, nb := in.named[ta.Payload], in.named[tb.Payload]
		return na.Name == nb.Name && in.equalList(na.Args, nb.Args)
	default:
		return false
	}
}

// EqualList compares two type lists pairwise with Equal.
func (in *Interner) EqualList(a, b []TypeID) bool {
	return in.equalList(a, b)
}

func (in *Interner) equalList(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !in.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash writes the canonical shape of id. It agrees with Equal: equal types
// always produce the same bytes.
func (in *Interner) Hash(h *hasher.Hasher, id TypeID) {
	r := in.Resolve(id)
	tt, ok := in.Lookup(r)
	if !ok {
		h.WriteUint8(uint8(KindInvalid))
		return
	}
	h.WriteUint8(uint8(tt.Kind))
	switch tt.Kind {
	case KindInt, KindUint:
		h.WriteUint8(uint8(tt.Width))
	case KindGenericParam:
		p := in.params[tt.Payload]
		h.WriteString(in.Strings.MustLookup(p.Name))
		h.WriteBool(p.IsSelf)
	case KindVar:
		h.WriteUint32(uint32(r))
	case KindTuple:
		in.HashList(h, in.tuples[tt.Payload].Elems)
	case KindFn:
		info := in.fns[tt.Payload]
		in.HashList(h, info.Params)
		in.Hash(h, info.Result)
	case KindNamed:
		info := in.named[tt.Payload]
		h.WriteString(in.Strings.MustLookup(info.Name))
		in.HashList(h, info.Args)
	default:
	}
}

// HashList hashes a type list in order, prefixed by its length.
func (in *Interner) HashList(h *hasher.Hasher, ids []TypeID) {
	h.WriteLen(len(ids))
	for _, id := range ids {
		in.Hash(h, id)
	}
}
