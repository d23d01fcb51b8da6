package source

// Ident is a name together with the place it was written.
// Two idents are the same name when their StringIDs match; the span is
// presentation only.
type Ident struct {
	Name StringID
	Span Span
}

// NewIdent builds an Ident from an already interned name.
func NewIdent(name StringID, span Span) Ident {
	return Ident{Name: name, Span: span}
}

// SameName reports whether both idents spell the same name.
func (id Ident) SameName(other Ident) bool {
	return id.Name == other.Name
}

// IsValid reports whether the ident carries a name.
func (id Ident) IsValid() bool {
	return id.Name != NoStringID
}
