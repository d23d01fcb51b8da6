package ty

import (
	"tycore/internal/decl"
	"tycore/internal/source"
	"tycore/internal/types"
)

// Engines bundles the shared mutable state of one compilation unit.
// It is not safe for concurrent use; parallel units own separate Engines.
type Engines struct {
	Strings *source.Interner
	Types   *types.Interner
	Decls   *DeclStore
}

// NewEngines creates fresh interners and an empty declaration store.
func NewEngines() *Engines {
	strings := source.NewInterner()
	return &Engines{
		Strings: strings,
		Types:   types.NewInterner(strings),
		Decls:   NewDeclStore(),
	}
}

// Name returns the spelling of an identifier.
func (e *Engines) Name(id source.Ident) string {
	return e.Strings.MustLookup(id.Name)
}

// DeclStore holds one arena per declaration kind.
type DeclStore struct {
	Functions  *decl.Arena[Function]
	TraitFns   *decl.Arena[TraitFn]
	Constants  *decl.Arena[Constant]
	TraitTypes *decl.Arena[TraitType]
	Traits     *decl.Arena[TraitDecl]
}

func NewDeclStore() *DeclStore {
	return &DeclStore{
		Functions:  decl.NewArena[Function](0),
		TraitFns:   decl.NewArena[TraitFn](0),
		Constants:  decl.NewArena[Constant](0),
		TraitTypes: decl.NewArena[TraitType](0),
		Traits:     decl.NewArena[TraitDecl](8),
	}
}

func (s *DeclStore) Function(r FunctionRef) Function    { return s.Functions.Get(r.ID()) }
func (s *DeclStore) TraitFn(r TraitFnRef) TraitFn       { return s.TraitFns.Get(r.ID()) }
func (s *DeclStore) Constant(r ConstantRef) Constant    { return s.Constants.Get(r.ID()) }
func (s *DeclStore) TraitType(r TraitTypeRef) TraitType { return s.TraitTypes.Get(r.ID()) }
func (s *DeclStore) Trait(r TraitRef) TraitDecl         { return s.Traits.Get(r.ID()) }

// Len reports the number of declarations across all arenas.
func (s *DeclStore) Len() int {
	return s.Functions.Len() + s.TraitFns.Len() + s.Constants.Len() + s.TraitTypes.Len() + s.Traits.Len()
}
