package ast

import (
	"strings"

	"tycore/internal/source"
)

// Supertrait is a trait bound written on a trait declaration, e.g. `core::Debug`.
// It stays unresolved: sema only checks that the last segment names a trait.
type Supertrait struct {
	Path []source.Ident
	Span source.Span
}

// Name returns the last path segment.
func (s Supertrait) Name() source.Ident {
	if len(s.Path) == 0 {
		return source.Ident{}
	}
	return s.Path[len(s.Path)-1]
}

// Equal compares paths segment by segment; spans are ignored.
func (s Supertrait) Equal(other Supertrait) bool {
	if len(s.Path) != len(other.Path) {
		return false
	}
	for i := range s.Path {
		if !s.Path[i].SameName(other.Path[i]) {
			return false
		}
	}
	return true
}

// String renders the path with `::` separators.
func (s Supertrait) String(in *source.Interner) string {
	parts := make([]string, 0, len(s.Path))
	for _, seg := range s.Path {
		parts = append(parts, in.MustLookup(seg.Name))
	}
	return strings.Join(parts, "::")
}

// ParseSupertrait splits a `::`-separated path.
func ParseSupertrait(text string, in *source.Interner, span source.Span) Supertrait {
	st := Supertrait{Span: span}
	for _, seg := range strings.Split(text, "::") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		st.Path = append(st.Path, source.NewIdent(in.InternIdent(seg), span))
	}
	return st
}
