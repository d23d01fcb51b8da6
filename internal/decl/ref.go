package decl

import "tycore/internal/source"

// Ref is a handle to a stored declaration with a cached name and span.
type Ref[T Body[T]] struct {
	id   ID[T]
	name source.Ident
	span source.Span
}

// NewRef builds a handle for an already inserted body.
func NewRef[T Body[T]](id ID[T], name source.Ident, span source.Span) Ref[T] {
	return Ref[T]{id: id, name: name, span: span}
}

func (r Ref[T]) ID() ID[T]          { return r.id }
func (r Ref[T]) Name() source.Ident { return r.name }
func (r Ref[T]) Span() source.Span  { return r.span }
func (r Ref[T]) Any() AnyID         { return r.id.Any() }
func (r Ref[T]) IsValid() bool      { return r.id.IsValid() }

// WithID returns a copy of the handle pointing at id.
func (r Ref[T]) WithID(id ID[T]) Ref[T] {
	r.id = id
	return r
}

// ReplaceID points the handle at another entry, keeping name and span.
func (r *Ref[T]) ReplaceID(id ID[T]) {
	r.id = id
}
