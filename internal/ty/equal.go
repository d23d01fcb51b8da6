package ty

import (
	"tycore/internal/decl"
	"tycore/internal/hasher"
	"tycore/internal/source"
)

// EqualWithEngines compares two nodes of the same type through the engines.
type EqualWithEngines[T any] interface {
	EqualWith(other T, e *Engines) bool
}

// HashWithEngines writes a hash that agrees with EqualWith: nodes that
// compare equal write identical input into h.
type HashWithEngines interface {
	HashWith(h *hasher.Hasher, e *Engines)
}

// Node is a storable declaration body with engine-threaded equality.
type Node[T any] interface {
	decl.Body[T]
	EqualWithEngines[T]
	HashWithEngines
}

// EqualSlices compares element-wise; order matters.
func EqualSlices[T EqualWithEngines[T]](a, b []T, e *Engines) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].EqualWith(b[i], e) {
			return false
		}
	}
	return true
}

func HashSlice[T HashWithEngines](h *hasher.Hasher, xs []T, e *Engines) {
	h.WriteLen(len(xs))
	for _, x := range xs {
		x.HashWith(h, e)
	}
}

// Hash64 hashes a single node with a fresh sink.
func Hash64(n HashWithEngines, e *Engines) uint64 {
	h := hasher.New()
	n.HashWith(h, e)
	return h.Sum64()
}

// EqualRefs reports whether two handles denote the same declaration: the
// cached names agree and the bodies they resolve to are equal. Handles with
// the same identity are equal without a lookup.
func EqualRefs[T Node[T]](a, b decl.Ref[T], arena *decl.Arena[T], e *Engines) bool {
	if !a.Name().SameName(b.Name()) {
		return false
	}
	if a.ID() == b.ID() {
		return true
	}
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	return arena.Get(a.ID()).EqualWith(arena.Get(b.ID()), e)
}

// HashRef hashes the handle's name and the body it currently resolves to.
func HashRef[T Node[T]](h *hasher.Hasher, r decl.Ref[T], arena *decl.Arena[T], e *Engines) {
	hashIdent(h, r.Name(), e)
	if !r.IsValid() {
		h.WriteBool(false)
		return
	}
	h.WriteBool(true)
	arena.Get(r.ID()).HashWith(h, e)
}

func hashIdent(h *hasher.Hasher, id source.Ident, e *Engines) {
	h.WriteString(e.Strings.MustLookup(id.Name))
}
