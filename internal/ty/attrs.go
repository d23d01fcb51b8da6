package ty

import (
	"maps"
	"slices"

	"tycore/internal/ast"
	"tycore/internal/source"
)

// Attributes groups attributes by name. They are presentation metadata and
// never affect equality or hashing.
type Attributes map[source.StringID][]ast.Attr

func NewAttributes(attrs []ast.Attr) Attributes {
	if len(attrs) == 0 {
		return nil
	}
	out := make(Attributes, len(attrs))
	for _, a := range attrs {
		out[a.Name.Name] = append(out[a.Name.Name], a)
	}
	return out
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := maps.Clone(a)
	for k, v := range out {
		out[k] = slices.Clone(v)
	}
	return out
}

// Has reports whether an attribute called name is present.
func (a Attributes) Has(name source.StringID) bool {
	return len(a[name]) > 0
}
