package mono

import (
	"tycore/internal/decl"
	"tycore/internal/source"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// Instantiation is one substituted copy of a trait template.
type Instantiation struct {
	// Template is the generic trait the copy was made from.
	Template ty.TraitRef
	// Instance points at the substituted trait, stored with Template as parent.
	Instance ty.TraitRef
	Trait    ty.TraitDecl
	Subst    *types.SubstMap

	// Surface maps template surface handles to instance handles. Functions
	// and constants are recorded; associated types are not.
	Surface *decl.Mapping
	// Items maps every template item handle to its instance handle.
	Items *decl.Mapping
}

// Lookup finds an instantiated interface member by name.
func (inst *Instantiation) Lookup(name source.StringID) (ty.InterfaceItem, bool) {
	for _, it := range inst.Trait.InterfaceSurface {
		if it.Name().Name == name {
			return it, true
		}
	}
	return ty.InterfaceItem{}, false
}

// LookupItem finds an instantiated provided member by name.
func (inst *Instantiation) LookupItem(name source.StringID) (ty.Item, bool) {
	for _, it := range inst.Trait.Items {
		if it.Name().Name == name {
			return it, true
		}
	}
	return ty.Item{}, false
}

// Mapping returns both mappings merged into a fresh one, for callers that
// rewire references into either sequence.
func (inst *Instantiation) Mapping() *decl.Mapping {
	out := decl.NewMapping()
	out.Merge(inst.Surface)
	out.Merge(inst.Items)
	return out
}
