package types

import (
	"slices"

	"tycore/internal/hasher"
)

// SubstMap maps generic parameter identities to replacement types.
type SubstMap struct {
	entries map[TypeID]TypeID
	order   []TypeID

	cache map[TypeID]TypeID
}

// NewSubstMap returns an empty substitution.
func NewSubstMap() *SubstMap {
	return &SubstMap{entries: make(map[TypeID]TypeID, 4)}
}

// Insert maps param to repl, replacing an earlier entry for param.
func (m *SubstMap) Insert(param, repl TypeID) {
	if _, ok := m.entries[param]; !ok {
		m.order = append(m.order, param)
	}
	m.entries[param] = repl
	m.cache = nil
}

// Lookup returns the replacement registered for param.
func (m *SubstMap) Lookup(param TypeID) (TypeID, bool) {
	if m == nil {
		return NoTypeID, false
	}
	repl, ok := m.entries[param]
	return repl, ok
}

// Len reports the number of entries.
func (m *SubstMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Empty reports whether the substitution is the identity.
func (m *SubstMap) Empty() bool { return m.Len() == 0 }

// Params returns the substituted parameters in insertion order.
func (m *SubstMap) Params() []TypeID {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Apply substitutes every generic parameter mentioned by id. Bound inference
// variables are resolved first; unbound ones are left as they are.
func (in *Interner) Apply(id TypeID, m *SubstMap) TypeID {
	if m.Empty() || id == NoTypeID {
		return id
	}
	// memo по канонической форме: переменная, привязанная позже, даёт новый ключ
	id = in.Resolve(id)
	if m.cache == nil {
		m.cache = make(map[TypeID]TypeID, 16)
	} else if cached, ok := m.cache[id]; ok {
		return cached
	}
	out := in.applyNoCache(id, m)
	m.cache[id] = out
	return out
}

func (in *Interner) applyNoCache(id TypeID, m *SubstMap) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindGenericParam:
		if repl, ok := m.entries[id]; ok && repl != NoTypeID {
			return repl
		}
		return id
	case KindTuple:
		elems, changed := in.applyList(in.tuples[tt.Payload].Elems, m)
		if !changed {
			return id
		}
		return in.RegisterTuple(elems)
	case KindFn:
		info := in.fns[tt.Payload]
		params, changed := in.applyList(info.Params, m)
		result := in.Apply(info.Result, m)
		if !changed && result == info.Result {
			return id
		}
		return in.RegisterFn(params, result)
	case KindNamed:
		info := in.named[tt.Payload]
		args, changed := in.applyList(info.Args, m)
		if !changed {
			return id
		}
		return in.RegisterNamed(info.Name, args)
	default:
		return id
	}
}

// ApplyList substitutes every element of ids into a new slice.
func (in *Interner) ApplyList(ids []TypeID, m *SubstMap) []TypeID {
	out, _ := in.applyList(ids, m)
	return out
}

func (in *Interner) applyList(ids []TypeID, m *SubstMap) ([]TypeID, bool) {
	if len(ids) == 0 {
		return nil, false
	}
	out := make([]TypeID, len(ids))
	changed := false
	for i, id := range ids {
		out[i] = in.Apply(id, m)
		changed = changed || out[i] != id
	}
	return out, changed
}

// SubstMapsEqual reports whether a and b substitute the same parameters with
// equal replacements.
func (in *Interner) SubstMapsEqual(a, b *SubstMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, p := range a.Params() {
		rb, ok := b.Lookup(p)
		if !ok {
			return false
		}
		ra, _ := a.Lookup(p)
		if !in.Equal(ra, rb) {
			return false
		}
	}
	return true
}

// HashSubstMap hashes the entries of m in parameter-identity order.
func (in *Interner) HashSubstMap(h *hasher.Hasher, m *SubstMap) {
	params := m.Params()
	slices.Sort(params)
	h.WriteLen(len(params))
	for _, p := range params {
		h.WriteUint32(uint32(p))
		repl, _ := m.Lookup(p)
		in.Hash(h, repl)
	}
}
