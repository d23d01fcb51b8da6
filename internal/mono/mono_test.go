package mono

import (
	"bytes"
	"strings"
	"testing"

	"tycore/internal/ast"
	"tycore/internal/decl"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
	"tycore/internal/types"
)

type fixture struct {
	e     *ty.Engines
	trait ty.TraitRef
	t     types.TypeID
	self  types.TypeID
}

func ident(e *ty.Engines, name string) source.Ident {
	return source.NewIdent(e.Strings.InternIdent(name), source.Span{Start: 1, End: 2})
}

// newShow stores
//
//	trait Show<T> {
//	    fn show(self: Self) -> T; const ID: u64; type Output;
//	    fn twice(self: Self) -> T { show() }
//	    const ZERO: T = 0; type Item = T;
//	}
func newShow(t *testing.T) fixture {
	t.Helper()
	e := ty.NewEngines()
	b := e.Types.Builtins()
	tName, selfName := ident(e, "T"), ident(e, "Self")
	tID := e.Types.RegisterTypeParam(tName.Name, 1, 0, false)
	selfID := e.Types.RegisterTypeParam(selfName.Name, 1, 0, true)
	selfParam := ty.FnParam{Name: ident(e, "self"), Type: selfID}

	showName := ident(e, "show")
	show := decl.NewRef(e.Decls.TraitFns.Insert(ty.TraitFn{
		Name: showName, Params: []ty.FnParam{selfParam}, ReturnType: tID,
	}), showName, showName.Span)
	idName := ident(e, "ID")
	id := decl.NewRef(e.Decls.Constants.Insert(ty.Constant{Name: idName, Type: b.U64}), idName, idName.Span)
	outName := ident(e, "Output")
	out := decl.NewRef(e.Decls.TraitTypes.Insert(ty.TraitType{Name: outName}), outName, outName.Span)

	twiceName := ident(e, "twice")
	twice := decl.NewRef(e.Decls.Functions.Insert(ty.Function{
		Name:       twiceName,
		Params:     []ty.FnParam{selfParam},
		ReturnType: tID,
		Body:       []ty.Expr{{Kind: ty.ExprCall, Type: tID, Callee: show}},
	}), twiceName, twiceName.Span)
	zeroName := ident(e, "ZERO")
	zero := decl.NewRef(e.Decls.Constants.Insert(ty.Constant{
		Name:  zeroName,
		Type:  tID,
		Value: &ty.Expr{Kind: ty.ExprLiteral, Type: tID, Literal: "0"},
	}), zeroName, zeroName.Span)
	itemName := ident(e, "Item")
	item := decl.NewRef(e.Decls.TraitTypes.Insert(ty.TraitType{Name: itemName, Type: tID}), itemName, itemName.Span)

	traitName := ident(e, "Show")
	tr := ty.TraitDecl{
		Name:       traitName,
		TypeParams: []ty.TypeParameter{{Name: tName, Type: tID}},
		SelfType:   ty.TypeParameter{Name: selfName, Type: selfID, IsSelf: true},
		InterfaceSurface: []ty.InterfaceItem{
			ty.InterfaceFn(show), ty.InterfaceConstant(id), ty.InterfaceType(out),
		},
		Items: []ty.Item{
			ty.ItemFunction(twice), ty.ItemConst(zero), ty.ItemTraitType(item),
		},
		Visibility: ast.VisPublic,
	}
	ref := decl.NewRef(e.Decls.Traits.Insert(tr), traitName, traitName.Span)
	return fixture{e: e, trait: ref, t: tID, self: selfID}
}

func (f fixture) substU64() *types.SubstMap {
	m := types.NewSubstMap()
	m.Insert(f.t, f.e.Types.Builtins().U64)
	return m
}

func TestShowInstantiatedWithU64(t *testing.T) {
	f := newShow(t)
	e := f.e
	template := e.Decls.Trait(f.trait)
	inst := NewSubstituter(e, nil).Trait(f.trait, f.substU64())

	oldShow := template.InterfaceSurface[0].TraitFn
	instShow := inst.Trait.InterfaceSurface[0].TraitFn
	if oldShow.ID() == instShow.ID() {
		t.Fatalf("instantiated show must get a new handle")
	}
	if got := e.Decls.TraitFn(instShow).Signature(e); got != "fn show(self: Self) -> u64" {
		t.Fatalf("instance signature = %q", got)
	}
	if got := e.Decls.TraitFn(oldShow).Signature(e); got != "fn show(self: Self) -> T" {
		t.Fatalf("template signature = %q", got)
	}
	if !e.Types.Equal(inst.Trait.TypeParams[0].Type, e.Types.Builtins().U64) {
		t.Fatalf("type parameter not substituted: %s", e.Types.Label(inst.Trait.TypeParams[0].Type))
	}
	if inst.Trait.SelfType.Type != f.self {
		t.Fatalf("self type must stay the template's")
	}
}

func TestRepeatedInstancesEqualAndHashAlike(t *testing.T) {
	f := newShow(t)
	e := f.e
	sub := NewSubstituter(e, nil)
	a := e.Decls.Trait(sub.Trait(f.trait, f.substU64()).Instance)
	b := e.Decls.Trait(sub.Trait(f.trait, f.substU64()).Instance)

	if !a.EqualWith(b, e) {
		t.Fatalf("two instances under the same map must compare equal")
	}
	if ty.Hash64(a, e) != ty.Hash64(b, e) {
		t.Fatalf("equal instances hash apart")
	}

	// bounds on Self are not part of identity
	b.SelfType.Constraints = []ty.TraitConstraint{{Trait: ident(e, "Debug")}}
	if !a.EqualWith(b, e) || ty.Hash64(a, e) != ty.Hash64(b, e) {
		t.Fatalf("self bounds must stay out of equality and hash")
	}
}

func TestInstantiationHandlesAreDisjoint(t *testing.T) {
	f := newShow(t)
	template := f.e.Decls.Trait(f.trait)
	inst := NewSubstituter(f.e, nil).Trait(f.trait, f.substU64())

	for i, it := range inst.Trait.InterfaceSurface {
		if it.Any() == template.InterfaceSurface[i].Any() {
			t.Fatalf("surface %d shares handle %s with the template", i, it.Any())
		}
	}
	for i, it := range inst.Trait.Items {
		if it.Any() == template.Items[i].Any() {
			t.Fatalf("item %d shares handle %s with the template", i, it.Any())
		}
	}
	if inst.Instance.ID() == f.trait.ID() {
		t.Fatalf("instance trait must be a new entry")
	}
	if p, ok := f.e.Decls.Traits.Parent(inst.Instance.ID()); !ok || p != f.trait.ID() {
		t.Fatalf("instance trait must be linked to its template")
	}
}

func TestTemplateUntouchedByInstantiation(t *testing.T) {
	f := newShow(t)
	e := f.e
	template := e.Decls.Trait(f.trait)
	showBefore := e.Decls.TraitFn(template.InterfaceSurface[0].TraitFn)
	twiceBefore := e.Decls.Function(template.Items[0].Fn)
	zeroBefore := e.Decls.Constant(template.Items[1].Constant)

	sub := NewSubstituter(e, nil)
	sub.Trait(f.trait, f.substU64())
	other := types.NewSubstMap()
	other.Insert(f.t, e.Types.Builtins().Bool)
	sub.Trait(f.trait, other)

	if !e.Decls.Trait(f.trait).EqualWith(template, e) {
		t.Fatalf("template trait changed")
	}
	if !e.Decls.TraitFn(template.InterfaceSurface[0].TraitFn).EqualWith(showBefore, e) {
		t.Fatalf("template show changed")
	}
	if !e.Decls.Function(template.Items[0].Fn).EqualWith(twiceBefore, e) {
		t.Fatalf("template twice changed")
	}
	if !e.Decls.Constant(template.Items[1].Constant).EqualWith(zeroBefore, e) {
		t.Fatalf("template ZERO changed")
	}
	if rev := e.Decls.TraitFns.Revision(template.InterfaceSurface[0].TraitFn.ID()); rev != 0 {
		t.Fatalf("template entry was replaced %d times", rev)
	}
}

func TestSurfaceMappingSkipsAssociatedTypes(t *testing.T) {
	f := newShow(t)
	template := f.e.Decls.Trait(f.trait)
	inst := NewSubstituter(f.e, nil).Trait(f.trait, f.substU64())

	for i, it := range template.InterfaceSurface {
		next, ok := inst.Surface.Lookup(it.Any())
		switch it.Kind {
		case ty.ItemFn, ty.ItemConstant:
			if !ok || next != inst.Trait.InterfaceSurface[i].Any() {
				t.Fatalf("surface %s missing from mapping", it.Any())
			}
		case ty.ItemType:
			if ok {
				t.Fatalf("associated type %s must not be mapped", it.Any())
			}
		}
	}
	if inst.Surface.Len() != 2 {
		t.Fatalf("surface mapping has %d entries, want 2", inst.Surface.Len())
	}
}

func TestItemsMappingCoversEveryVariant(t *testing.T) {
	f := newShow(t)
	template := f.e.Decls.Trait(f.trait)
	inst := NewSubstituter(f.e, nil).Trait(f.trait, f.substU64())

	if inst.Items.Len() != len(template.Items) {
		t.Fatalf("items mapping has %d entries, want %d", inst.Items.Len(), len(template.Items))
	}
	for i, it := range template.Items {
		next, ok := inst.Items.Lookup(it.Any())
		if !ok || next != inst.Trait.Items[i].Any() {
			t.Fatalf("item %s missing from mapping", it.Any())
		}
	}
	if got := inst.Mapping().Len(); got != 5 {
		t.Fatalf("merged mapping has %d entries, want 5", got)
	}
}

func TestItemsInsertedWithParentAndRewired(t *testing.T) {
	f := newShow(t)
	e := f.e
	template := e.Decls.Trait(f.trait)
	inst := NewSubstituter(e, nil).Trait(f.trait, f.substU64())

	twice := inst.Trait.Items[0].Fn
	if p, ok := e.Decls.Functions.Parent(twice.ID()); !ok || p != template.Items[0].Fn.ID() {
		t.Fatalf("provided fn must be linked to its template")
	}
	if p, ok := e.Decls.TraitTypes.Parent(inst.Trait.Items[2].Type.ID()); !ok || p != template.Items[2].Type.ID() {
		t.Fatalf("provided type must be linked to its template")
	}
	if _, ok := e.Decls.Constants.Parent(inst.Trait.InterfaceSurface[1].Constant.ID()); ok {
		t.Fatalf("surface constants are inserted standalone")
	}
	if _, ok := e.Decls.TraitFns.Parent(inst.Trait.InterfaceSurface[0].TraitFn.ID()); !ok {
		t.Fatalf("surface functions are inserted with a parent")
	}

	body := e.Decls.Function(twice).Body
	if body[0].Callee.ID() != inst.Trait.InterfaceSurface[0].TraitFn.ID() {
		t.Fatalf("provided call still targets the template signature")
	}
	if got := e.Decls.Function(twice).Signature(e); got != "fn twice(self: Self) -> u64" {
		t.Fatalf("twice signature = %q", got)
	}
	if got := e.Decls.TraitType(inst.Trait.Items[2].Type).Signature(e); got != "type Item = u64" {
		t.Fatalf("Item signature = %q", got)
	}
	tmplBody := e.Decls.Function(template.Items[0].Fn).Body
	if tmplBody[0].Callee.ID() != template.InterfaceSurface[0].TraitFn.ID() {
		t.Fatalf("template call was rewired")
	}
}

func TestEmptySubstitutionStillCopies(t *testing.T) {
	f := newShow(t)
	inst := NewSubstituter(f.e, nil).Trait(f.trait, types.NewSubstMap())
	template := f.e.Decls.Trait(f.trait)
	if !inst.Trait.EqualWith(template, f.e) {
		t.Fatalf("identity instantiation must be structurally equal to the template")
	}
	if inst.Trait.InterfaceSurface[0].Any() == template.InterfaceSurface[0].Any() {
		t.Fatalf("identity instantiation must still allocate new handles")
	}
}

func TestCacheHitsAndInvalidation(t *testing.T) {
	f := newShow(t)
	e := f.e
	cache := NewCache(NewSubstituter(e, nil))

	first, hit := cache.Trait(f.trait, f.substU64())
	if hit {
		t.Fatalf("first lookup must miss")
	}
	second, hit := cache.Trait(f.trait, f.substU64())
	if !hit || second != first {
		t.Fatalf("equal substitution must hit")
	}

	other := types.NewSubstMap()
	other.Insert(f.t, e.Types.Builtins().Bool)
	if _, hit := cache.Trait(f.trait, other); hit {
		t.Fatalf("different substitution must miss")
	}

	template := e.Decls.Trait(f.trait)
	template.Visibility = ast.VisPrivate
	e.Decls.Traits.Replace(f.trait.ID(), template)
	if _, hit := cache.Trait(f.trait, f.substU64()); hit {
		t.Fatalf("replaced template must miss")
	}
	if hits, misses := cache.Stats(); hits != 1 || misses != 3 {
		t.Fatalf("stats = %d/%d, want 1/3", hits, misses)
	}
	if cache.Len() != 3 {
		t.Fatalf("cache holds %d entries, want 3", cache.Len())
	}
}

func TestLookupByName(t *testing.T) {
	f := newShow(t)
	inst := NewSubstituter(f.e, nil).Trait(f.trait, f.substU64())
	it, ok := inst.Lookup(f.e.Strings.Intern("ID"))
	if !ok || it.Kind != ty.ItemConstant {
		t.Fatalf("ID not found on the instance surface")
	}
	if _, ok := inst.Lookup(f.e.Strings.Intern("twice")); ok {
		t.Fatalf("provided members are not part of the surface")
	}
	if _, ok := inst.LookupItem(f.e.Strings.Intern("twice")); !ok {
		t.Fatalf("twice not found among items")
	}
}

func TestDumpAndTrace(t *testing.T) {
	f := newShow(t)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	sub := NewSubstituter(f.e, ring)
	inst := sub.Trait(f.trait, f.substU64())

	var buf bytes.Buffer
	if err := Dump(&buf, f.e, inst); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SECTION", "fn show(self: Self) -> u64", "const ZERO: u64 = 0", "type Output"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump lacks %q:\n%s", want, out)
		}
	}

	var begins int
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			begins++
		}
	}
	if begins != 7 {
		t.Fatalf("expected 1 trait span and 6 item spans, got %d", begins)
	}
}
