package sema

import (
	"errors"
	"testing"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/diag"
	"tycore/internal/source"
	"tycore/internal/ty"
	"tycore/internal/types"
)

type checked struct {
	c   *Checker
	res Result
	bag *diag.Bag
	fs  *source.FileSet
	err error
}

func checkString(t *testing.T, content string) checked {
	t.Helper()
	e := ty.NewEngines()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tyd.toml", []byte(content))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	f, err := ast.Decode(fs.Get(id), e.Strings, rep)
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, diag.FormatShort(bag.Items(), fs, true))
	}
	c := New(e, Options{Reporter: rep})
	res, err := c.CheckFile(f)
	return checked{c: c, res: res, bag: bag, fs: fs, err: err}
}

func (ch checked) codes() map[diag.Code]int {
	out := make(map[diag.Code]int)
	for _, d := range ch.bag.Items() {
		out[d.Code]++
	}
	return out
}

const showFile = `types = ["Point"]

[[trait]]
name = "Debug"

[[trait]]
name = "Show"
params = ["T"]
visibility = "pub"
supertraits = ["Debug"]

  [[trait.fn]]
  name = "show"
  params = [{ name = "self", type = "Self" }]
  returns = "T"

  [[trait.const]]
  name = "ID"
  type = "u64"

  [[trait.const]]
  name = "ZERO"
  type = "T"
  value = 0

  [[trait.type]]
  name = "Output"

  [[trait.provided]]
  name = "show_twice"
  params = [{ name = "self", type = "Self" }]
  returns = "T"

    [[trait.provided.body]]
    kind = "call"
    callee = "show"

[[impl]]
trait = "Show"
for = "Point"
args = ["u64"]

  [[impl.fn]]
  name = "show"
  params = [{ name = "self", type = "Self" }]
  returns = "u64"

  [[impl.const]]
  name = "ID"
  type = "u64"
  value = 1

  [[impl.type]]
  name = "Output"
  default = "str"
`

func TestCheckTraitAndImpl(t *testing.T) {
	ch := checkString(t, showFile)
	if ch.err != nil {
		t.Fatalf("unexpected errors:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	e := ch.c.Engines()
	if len(ch.res.Traits) != 2 || len(ch.res.Impls) != 1 {
		t.Fatalf("got %d traits and %d impls", len(ch.res.Traits), len(ch.res.Impls))
	}

	showRef, ok := ch.c.LookupTrait("Show")
	if !ok {
		t.Fatalf("Show not registered")
	}
	tmpl := e.Decls.Trait(showRef)
	if len(tmpl.InterfaceSurface) != 3 || len(tmpl.Items) != 2 {
		t.Fatalf("surface=%d items=%d, want 3 and 2", len(tmpl.InterfaceSurface), len(tmpl.Items))
	}
	if cs := tmpl.SelfType.Constraints; len(cs) != 1 || e.Name(cs[0].Trait) != "Debug" {
		t.Fatalf("Self must be constrained by the supertrait: %+v", cs)
	}

	impl := ch.res.Impls[0]
	show, _ := impl.Instance.Lookup(e.Strings.Intern("show"))
	if got := show.Signature(e); got != "fn show(self: Point) -> u64" {
		t.Fatalf("instantiated show = %q", got)
	}

	twice, ok := impl.Instance.LookupItem(e.Strings.Intern("show_twice"))
	if !ok {
		t.Fatalf("show_twice missing from the instance")
	}
	fn := e.Decls.Function(twice.Fn)
	if fn.Implementing == nil || !e.Types.Equal(fn.Implementing.For, impl.For) || fn.Implementing.Trait.ID() != showRef.ID() {
		t.Fatalf("provided function not bound to the impl: %+v", fn.Implementing)
	}
	if !fn.Finalized || e.Types.Label(fn.Body[0].Type) != "u64" {
		t.Fatalf("instance body not resolved: finalized=%v type=%s", fn.Finalized, e.Types.Label(fn.Body[0].Type))
	}
	if fn.Body[0].Callee.ID() != show.TraitFn.ID() {
		t.Fatalf("instance body must call the instantiated show")
	}

	for _, it := range tmpl.Items {
		if it.Kind != ty.ItemFn {
			continue
		}
		if tmplFn := e.Decls.Function(it.Fn); e.Types.Label(tmplFn.Body[0].Type) != "T" || tmplFn.Implementing != nil {
			t.Fatalf("template body changed: %s", e.Types.Label(tmplFn.Body[0].Type))
		}
	}

	if len(impl.Fns) != 1 || len(impl.Consts) != 1 || len(impl.Types) != 1 {
		t.Fatalf("impl members: %d fns, %d consts, %d types", len(impl.Fns), len(impl.Consts), len(impl.Types))
	}
	own := e.Decls.Function(impl.Fns[0])
	if own.Implementing == nil || !own.Finalized {
		t.Fatalf("impl function must be bound and finalized")
	}
}

func TestImplDiagnostics(t *testing.T) {
	ch := checkString(t, `types = ["Point"]

[[trait]]
name = "Show"
params = ["T"]
  [[trait.fn]]
  name = "show"
  params = [{ name = "self", type = "Self" }]
  returns = "T"
  [[trait.const]]
  name = "ID"
  type = "u64"
  [[trait.type]]
  name = "Output"

[[impl]]
trait = "Show"
for = "Point"
args = ["u64"]
  [[impl.fn]]
  name = "show"
  params = [{ name = "self", type = "Self" }]
  returns = "bool"
  [[impl.fn]]
  name = "extra"

[[impl]]
trait = "Show"
for = "Point"

[[impl]]
trait = "Missing"
for = "Point"
`)
	if !errors.Is(ch.err, diag.ErrEmitted) {
		t.Fatalf("expected ErrEmitted, got %v", ch.err)
	}
	want := map[diag.Code]int{
		diag.SemaTraitMethodMismatch: 1,
		diag.SemaTraitUnknownMember:  1,
		diag.SemaTraitMissingConst:   1,
		diag.SemaTraitMissingType:    1,
		diag.SemaTraitArgCount:       1,
		diag.SemaTraitNotFound:       1,
	}
	got := ch.codes()
	for code, n := range want {
		if got[code] != n {
			t.Fatalf("%s: got %d, want %d\n%s", code.ID(), got[code], n, diag.FormatShort(ch.bag.Items(), ch.fs, true))
		}
	}
	if ch.bag.Len() != 6 {
		t.Fatalf("expected 6 diagnostics:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	for _, d := range ch.bag.Items() {
		if d.Code == diag.SemaTraitMethodMismatch && len(d.Notes) != 1 {
			t.Fatalf("mismatch must point at the required declaration")
		}
	}
	if len(ch.res.Impls) != 1 {
		t.Fatalf("the first impl is kept despite its errors, got %d", len(ch.res.Impls))
	}
}

func TestCheckTraitReportsFinalizeFailure(t *testing.T) {
	e := ty.NewEngines()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tyd.toml", []byte(`[[trait]]
name = "Vague"
  [[trait.provided]]
  name = "guess"
  returns = "bool"
    [[trait.provided.body]]
    kind = "lit"
    value = 1
    [[trait.provided.body]]
    kind = "lit"
    value = true
    type = "bool"
`))
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	f, err := ast.Decode(fs.Get(id), e.Strings, rep)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := New(e, Options{Reporter: rep})
	ref, err := c.CheckTrait(&f.Traits[0])
	if !errors.Is(err, diag.ErrEmitted) {
		t.Fatalf("expected ErrEmitted from finalization, got %v", err)
	}
	if !ref.IsValid() {
		t.Fatalf("trait must still be stored")
	}
	fn := e.Decls.Function(e.Decls.Trait(ref).Items[0].Fn)
	if fn.Finalized {
		t.Fatalf("failed item must stay unfinalized")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaTypeAnnotationsNeeded {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(bag.Items(), fs, true))
	}
}

func TestTraitBodyDiagnosticsKeepSiblings(t *testing.T) {
	ch := checkString(t, `[[trait]]
name = "Calc"
  [[trait.fn]]
  name = "get"
  returns = "u64"
  [[trait.fn]]
  name = "get"
  returns = "u64"
  [[trait.provided]]
  name = "helper"
  returns = "u64"
    [[trait.provided.body]]
    kind = "call"
    callee = "get"
  [[trait.provided]]
  name = "twice"
  returns = "u64"
    [[trait.provided.body]]
    kind = "call"
    callee = "helper"
  [[trait.provided]]
  name = "vague"
  returns = "bool"
    [[trait.provided.body]]
    kind = "lit"
    value = 1
    [[trait.provided.body]]
    kind = "lit"
    value = true
    type = "bool"
`)
	if !errors.Is(ch.err, diag.ErrEmitted) {
		t.Fatalf("expected ErrEmitted, got %v", ch.err)
	}
	got := ch.codes()
	if got[diag.SemaTraitDuplicateMember] != 1 || got[diag.SemaUnresolvedSymbol] != 1 || got[diag.SemaTypeAnnotationsNeeded] != 1 || ch.bag.Len() != 3 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	for _, d := range ch.bag.Items() {
		if (d.Code == diag.SemaTraitDuplicateMember || d.Code == diag.SemaUnresolvedSymbol) && len(d.Notes) != 1 {
			t.Fatalf("%s must carry a note", d.Code.ID())
		}
	}

	e := ch.c.Engines()
	ref, ok := ch.c.LookupTrait("Calc")
	if !ok {
		t.Fatalf("a trait with failing members is still stored")
	}
	tr := e.Decls.Trait(ref)
	if len(tr.InterfaceSurface) != 1 || len(tr.Items) != 3 {
		t.Fatalf("surface=%d items=%d", len(tr.InterfaceSurface), len(tr.Items))
	}
	finalized := []bool{true, true, false}
	for i, it := range tr.Items {
		if fn := e.Decls.Function(it.Fn); fn.Finalized != finalized[i] {
			t.Fatalf("item %s finalized=%v", e.Name(it.Name()), fn.Finalized)
		}
	}
}

func TestUnknownSupertraitAndDuplicateTrait(t *testing.T) {
	ch := checkString(t, `[[trait]]
name = "A"
supertraits = ["Nope", "B"]
[[trait]]
name = "B"
[[trait]]
name = "A"
`)
	got := ch.codes()
	if got[diag.SemaTraitSupertraitNotFnd] != 1 || got[diag.SemaDuplicateSymbol] != 1 || ch.bag.Len() != 2 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	if len(ch.res.Traits) != 2 {
		t.Fatalf("duplicate trait must not be stored, got %d", len(ch.res.Traits))
	}
	a, _ := ch.c.LookupTrait("A")
	tr := ch.c.Engines().Decls.Trait(a)
	if len(tr.Supertraits) != 2 || len(tr.SelfType.Constraints) != 1 {
		t.Fatalf("supertraits kept as written, constraints only for known traits: %+v", tr.SelfType.Constraints)
	}
}

func TestInterfaceForChecksArity(t *testing.T) {
	ch := checkString(t, showFile)
	ref, _ := ch.c.LookupTrait("Show")
	e := ch.c.Engines()
	b := e.Types.Builtins()
	if _, err := ch.c.InterfaceFor(ref, b.Bool, nil, source.Span{}); !errors.Is(err, diag.ErrEmitted) {
		t.Fatalf("missing type argument must fail")
	}
	first, err := ch.c.InterfaceFor(ref, b.Bool, []types.TypeID{b.U8}, source.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := ch.c.InterfaceFor(ref, b.Bool, []types.TypeID{b.U8}, source.Span{})
	if first != second {
		t.Fatalf("equal instantiations must be shared")
	}
	show, _ := first.Lookup(e.Strings.Intern("show"))
	if got := show.Signature(e); got != "fn show(self: bool) -> u8" {
		t.Fatalf("signature = %q", got)
	}
}

// storeFn inserts a provided function whose single body expression has type x.
func storeFn(e *ty.Engines, name string, x types.TypeID) ty.Item {
	id := source.NewIdent(e.Strings.InternIdent(name), source.Span{Start: 1, End: 2})
	fn := ty.Function{
		Name:       id,
		ReturnType: e.Types.Builtins().U64,
		Body:       []ty.Expr{{Kind: ty.ExprLiteral, Type: x, Literal: "1", Span: id.Span}},
	}
	return ty.ItemFunction(decl.NewRef(e.Decls.Functions.Insert(fn), id, id.Span))
}

func TestFinalizeContinuesPastFailure(t *testing.T) {
	e := ty.NewEngines()
	bound := e.Types.NewVar()
	e.Types.BindVar(bound, e.Types.Builtins().U64)
	items := []ty.Item{
		storeFn(e, "first", bound),
		storeFn(e, "second", e.Types.NewVar()),
		storeFn(e, "third", e.Types.Builtins().U64),
	}
	bag := diag.NewBag(8)
	h := diag.NewHandler(&diag.BagReporter{Bag: bag})

	err := FinalizeItems(h, e, items)
	if !errors.Is(err, diag.ErrEmitted) {
		t.Fatalf("expected ErrEmitted, got %v", err)
	}
	if h.ErrorCount() != 1 || bag.Items()[0].Code != diag.SemaTypeAnnotationsNeeded {
		t.Fatalf("expected one annotation error, got %s", bag)
	}
	for i, want := range []uint32{1, 0, 1} {
		if rev := e.Decls.Functions.Revision(items[i].Fn.ID()); rev != want {
			t.Fatalf("item %d revision %d, want %d", i, rev, want)
		}
	}
	first := e.Decls.Function(items[0].Fn)
	if !first.Finalized || first.Body[0].Type != e.Types.Builtins().U64 {
		t.Fatalf("resolved type not written back: %s", e.Types.Label(first.Body[0].Type))
	}
	if e.Decls.Function(items[1].Fn).Finalized {
		t.Fatalf("failed item must stay unfinalized")
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	e := ty.NewEngines()
	b := e.Types.Builtins()
	idName := source.NewIdent(e.Strings.InternIdent("ID"), source.Span{})
	k := decl.NewRef(e.Decls.Constants.Insert(ty.Constant{
		Name:  idName,
		Type:  b.U64,
		Value: &ty.Expr{Kind: ty.ExprLiteral, Type: b.U64, Literal: "7"},
	}), idName, idName.Span)
	outName := source.NewIdent(e.Strings.InternIdent("Out"), source.Span{})
	out := decl.NewRef(e.Decls.TraitTypes.Insert(ty.TraitType{Name: outName, Type: b.Bool}), outName, outName.Span)
	items := []ty.Item{storeFn(e, "f", b.U64), ty.ItemConst(k), ty.ItemTraitType(out)}

	h := diag.NewHandler(nil)
	if err := FinalizeItems(h, e, items); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	fnBefore := e.Decls.Function(items[0].Fn)
	constBefore := e.Decls.Constant(k)

	if err := FinalizeItems(h, e, items); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if h.ErrorCount() != 0 {
		t.Fatalf("second pass reported %d errors", h.ErrorCount())
	}
	if !e.Decls.Function(items[0].Fn).EqualWith(fnBefore, e) || !e.Decls.Constant(k).EqualWith(constBefore, e) {
		t.Fatalf("second pass changed the bodies")
	}
	if e.Decls.Functions.Revision(items[0].Fn.ID()) != 1 || e.Decls.Constants.Revision(k.ID()) != 1 {
		t.Fatalf("second pass must not replace finalized entries")
	}
	if e.Decls.TraitTypes.Revision(out.ID()) != 0 {
		t.Fatalf("associated types are never replaced")
	}
}

func TestSupertraitsCheckedFirst(t *testing.T) {
	ch := checkString(t, `[[trait]]
name = "Pretty"
supertraits = ["Show"]
[[trait]]
name = "Show"
supertraits = ["Debug"]
[[trait]]
name = "Debug"
`)
	if ch.err != nil {
		t.Fatalf("unexpected errors:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	e := ch.c.Engines()
	var got []string
	for _, r := range ch.res.Traits {
		got = append(got, e.Name(r.Name()))
	}
	if len(got) != 3 || got[0] != "Debug" || got[1] != "Show" || got[2] != "Pretty" {
		t.Fatalf("check order = %v", got)
	}
}

func TestSupertraitCycle(t *testing.T) {
	ch := checkString(t, `[[trait]]
name = "A"
supertraits = ["B"]
[[trait]]
name = "B"
supertraits = ["A"]
[[trait]]
name = "C"
`)
	if got := ch.codes()[diag.SemaTraitSupertraitCycle]; got != 2 || ch.bag.Len() != 2 {
		t.Fatalf("expected a cycle report per trait:\n%s", diag.FormatShort(ch.bag.Items(), ch.fs, true))
	}
	if len(ch.res.Traits) != 3 {
		t.Fatalf("cyclic traits are still checked, got %d", len(ch.res.Traits))
	}
}
