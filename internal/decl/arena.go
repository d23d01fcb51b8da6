package decl

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrNotFound is wrapped by the panic raised for stale or foreign IDs.
var ErrNotFound = errors.New("decl: not found")

type entry[T Body[T]] struct {
	body     T
	parent   ID[T]
	revision uint32
}

// Arena stores bodies of one declaration kind.
type Arena[T Body[T]] struct {
	data []entry[T]
}

// NewArena creates an arena with optional capacity hint.
func NewArena[T Body[T]](capacity uint32) *Arena[T] {
	if capacity == 0 {
		capacity = 32
	}
	return &Arena[T]{
		data: make([]entry[T], 1, capacity+1), // index 0 reserved for the zero ID
	}
}

// Insert stores a clone of body and returns its new identity.
func (a *Arena[T]) Insert(body T) ID[T] {
	return a.insert(body, 0)
}

// InsertWithParent stores body and links it to parent so that the clone can
// be traced back to the declaration it was derived from.
func (a *Arena[T]) InsertWithParent(body T, parent ID[T]) ID[T] {
	a.mustContain(parent)
	return a.insert(body, parent)
}

func (a *Arena[T]) insert(body T, parent ID[T]) ID[T] {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	a.data = append(a.data, entry[T]{body: body.Clone(), parent: parent})
	return ID[T](value)
}

// Get returns a clone of the body stored at id. A stale or foreign id is a
// programming error and panics with ErrNotFound.
func (a *Arena[T]) Get(id ID[T]) T {
	a.mustContain(id)
	return a.data[id].body.Clone()
}

// Lookup is the non-panicking form of Get.
func (a *Arena[T]) Lookup(id ID[T]) (T, bool) {
	if !a.Contains(id) {
		var zero T
		return zero, false
	}
	return a.data[id].body.Clone(), true
}

// Replace overwrites the body at id in place. Every Ref holding id observes
// the new body on its next dereference.
func (a *Arena[T]) Replace(id ID[T], body T) {
	a.mustContain(id)
	e := &a.data[id]
	e.body = body.Clone()
	e.revision++
}

// Contains reports whether id refers to an entry of this arena.
func (a *Arena[T]) Contains(id ID[T]) bool {
	return id.IsValid() && int(id) < len(a.data)
}

// Parent returns the declaration id was derived from, if any.
func (a *Arena[T]) Parent(id ID[T]) (ID[T], bool) {
	a.mustContain(id)
	p := a.data[id].parent
	return p, p.IsValid()
}

// Origin follows parent links up to the root template.
func (a *Arena[T]) Origin(id ID[T]) ID[T] {
	for {
		p, ok := a.Parent(id)
		if !ok {
			return id
		}
		id = p
	}
}

// Revision counts the Replace calls applied to id.
func (a *Arena[T]) Revision(id ID[T]) uint32 {
	a.mustContain(id)
	return a.data[id].revision
}

// Len reports number of stored bodies excluding the sentinel.
func (a *Arena[T]) Len() int { return len(a.data) - 1 }

func (a *Arena[T]) mustContain(id ID[T]) {
	if !a.Contains(id) {
		panic(fmt.Errorf("%w: %s (arena holds %d)", ErrNotFound, id.Any(), a.Len()))
	}
}
