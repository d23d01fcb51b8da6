package driver

import (
	"fmt"

	"tycore/internal/ast"
	"tycore/internal/diag"
	"tycore/internal/mono"
	"tycore/internal/source"
	"tycore/internal/types"
)

// Instantiate substitutes the trait named trait in a checked unit with
// Self = forType and the given type arguments, each written as a type
// expression. Problems with the request go to u.Bag and yield
// diag.ErrEmitted.
func Instantiate(u *Unit, trait, forType string, args []string) (*mono.Instantiation, error) {
	if u.Checker == nil {
		return nil, fmt.Errorf("%s: unit was not checked", u.Path)
	}
	rep := &diag.BagReporter{Bag: u.Bag}
	ref, ok := u.Checker.LookupTrait(trait)
	if !ok {
		diag.ReportError(rep, diag.SemaTraitNotFound, source.Span{File: u.FileID}, fmt.Sprintf("unknown trait '%s'", trait)).Emit()
		return nil, diag.ErrEmitted
	}
	self, err := resolveArg(u, forType)
	if err != nil {
		return nil, err
	}
	ids := make([]types.TypeID, 0, len(args))
	for _, a := range args {
		id, err := resolveArg(u, a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return u.Checker.InterfaceFor(ref, self, ids, source.Span{File: u.FileID})
}

func resolveArg(u *Unit, text string) (types.TypeID, error) {
	span := source.Span{File: u.FileID}
	te, err := ast.ParseType(text, u.Engines.Strings, span)
	if err != nil {
		diag.ReportError(&diag.BagReporter{Bag: u.Bag}, diag.SynExpectType, span, fmt.Sprintf("invalid type %q: %v", text, err)).Emit()
		return types.NoTypeID, diag.ErrEmitted
	}
	id := u.Checker.ResolveType(te)
	if id == types.NoTypeID {
		return types.NoTypeID, diag.ErrEmitted
	}
	return id, nil
}
