package decl

import "slices"

// Mapping records old->new declaration identities.
type Mapping struct {
	entries map[AnyID]AnyID
	order   []AnyID
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[AnyID]AnyID)}
}

// Insert records that old was replaced by next. Kinds must agree.
func (m *Mapping) Insert(old, next AnyID) {
	if old.Kind != next.Kind {
		panic("decl: mapping across kinds " + old.String() + " -> " + next.String())
	}
	if _, ok := m.entries[old]; !ok {
		m.order = append(m.order, old)
	}
	m.entries[old] = next
}

// Lookup returns the replacement of old.
func (m *Mapping) Lookup(old AnyID) (AnyID, bool) {
	if m == nil {
		return AnyID{}, false
	}
	n, ok := m.entries[old]
	return n, ok
}

// Has reports whether old was remapped.
func (m *Mapping) Has(old AnyID) bool {
	_, ok := m.Lookup(old)
	return ok
}

// Len reports the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns old identities in insertion order.
func (m *Mapping) Keys() []AnyID {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Merge copies every entry of other into m; entries of other win.
func (m *Mapping) Merge(other *Mapping) {
	for _, k := range other.Keys() {
		v, _ := other.Lookup(k)
		m.Insert(k, v)
	}
}

// Rewire returns r pointed at its replacement when m remaps it.
func Rewire[T Body[T]](m *Mapping, r Ref[T]) (Ref[T], bool) {
	n, ok := m.Lookup(r.Any())
	if !ok {
		return r, false
	}
	return r.WithID(ID[T](n.Index)), true
}
