package ast

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"tycore/internal/diag"
	"tycore/internal/source"
)

type fileDoc struct {
	Types  []string   `toml:"types"`
	Traits []traitDoc `toml:"trait"`
	Impls  []implDoc  `toml:"impl"`
}

type attrDoc struct {
	Name string   `toml:"name"`
	Args []string `toml:"args"`
}

type paramDoc struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Mut  bool   `toml:"mut"`
}

type exprDoc struct {
	Kind   string `toml:"kind"`
	Callee string `toml:"callee"`
	Type   string `toml:"type"`
	Value  any    `toml:"value"`
}

type fnDoc struct {
	Name       string     `toml:"name"`
	TypeParams []string   `toml:"type_params"`
	Params     []paramDoc `toml:"params"`
	Returns    string     `toml:"returns"`
	Body       []exprDoc  `toml:"body"`
	Attr       []attrDoc  `toml:"attr"`
}

type constDoc struct {
	Name  string    `toml:"name"`
	Type  string    `toml:"type"`
	Value any       `toml:"value"`
	Attr  []attrDoc `toml:"attr"`
}

type typeDoc struct {
	Name    string    `toml:"name"`
	Default string    `toml:"default"`
	Attr    []attrDoc `toml:"attr"`
}

type traitDoc struct {
	Name        string     `toml:"name"`
	Params      []string   `toml:"params"`
	Visibility  string     `toml:"visibility"`
	Supertraits []string   `toml:"supertraits"`
	Attr        []attrDoc  `toml:"attr"`
	Fn          []fnDoc    `toml:"fn"`
	Provided    []fnDoc    `toml:"provided"`
	Const       []constDoc `toml:"const"`
	Type        []typeDoc  `toml:"type"`
}

type implDoc struct {
	Trait string     `toml:"trait"`
	For   string     `toml:"for"`
	Args  []string   `toml:"args"`
	Fn    []fnDoc    `toml:"fn"`
	Const []constDoc `toml:"const"`
	Type  []typeDoc  `toml:"type"`
}

// Decode parses a declaration file. Problems are reported through r and
// decoding continues with the next declaration; the result is
// diag.ErrEmitted when at least one error was reported.
func Decode(f *source.File, in *source.Interner, r diag.Reporter) (*File, error) {
	d := &decoder{in: in, r: r, file: f.ID}
	var doc fileDoc
	md, err := toml.Decode(string(f.Content), &doc)
	if err != nil {
		d.reportTOML(err)
		return &File{ID: f.ID}, diag.ErrEmitted
	}
	d.loc = newLocator(f.ID, f.Content)
	for _, key := range md.Undecoded() {
		diag.ReportWarning(r, diag.SynUnknownMember, source.Span{File: f.ID},
			fmt.Sprintf("unknown key %q", key.String())).Emit()
	}

	out := &File{ID: f.ID}
	whole := d.loc.whole()
	for _, name := range doc.Types {
		out.Types = append(out.Types, d.ident(name, d.loc.quoted(name, whole)))
	}
	traitRegions := d.loc.regions("trait", "name", whole)
	for i, td := range doc.Traits {
		out.Traits = append(out.Traits, d.trait(td, at(traitRegions, i, 0)))
	}
	implRegions := d.loc.regions("impl", "trait", whole)
	for i, id := range doc.Impls {
		out.Impls = append(out.Impls, d.impl(id, at(implRegions, i, 0)))
	}
	if d.failed {
		return out, diag.ErrEmitted
	}
	return out, nil
}

type decoder struct {
	in     *source.Interner
	r      diag.Reporter
	loc    *locator
	file   source.FileID
	failed bool
}

func (d *decoder) errorf(code diag.Code, span source.Span, format string, args ...any) {
	d.failed = true
	diag.ReportError(d.r, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (d *decoder) reportTOML(err error) {
	span := source.Span{File: d.file}
	msg := err.Error()
	var perr toml.ParseError
	if errors.As(err, &perr) {
		if start, cerr := safecast.Conv[uint32](perr.Position.Start); cerr == nil {
			span.Start = start
			span.End = start
		}
		if n, cerr := safecast.Conv[uint32](perr.Position.Len); cerr == nil {
			span.End = span.Start + n
		}
		if perr.Message != "" {
			msg = perr.Message
		}
	}
	d.errorf(diag.SynDeclFile, span, "malformed declaration file: %s", msg)
}

func (d *decoder) ident(name string, span source.Span) source.Ident {
	return source.NewIdent(d.in.InternIdent(name), span)
}

// typeExpr parses text; an empty text yields def. A parse failure is
// reported and yields an invalid type so later passes stay quiet about it.
func (d *decoder) typeExpr(text string, span source.Span, def TypeExpr) TypeExpr {
	if strings.TrimSpace(text) == "" {
		return def
	}
	t, err := ParseType(text, d.in, span)
	if err != nil {
		d.errorf(diag.SynExpectType, span, "%v", err)
		return TypeExpr{Span: span}
	}
	return t
}

func (d *decoder) requiredType(text string, span source.Span, what string) TypeExpr {
	if strings.TrimSpace(text) == "" {
		d.errorf(diag.SynExpectType, span, "%s has no type", what)
		return TypeExpr{Span: span}
	}
	return d.typeExpr(text, span, TypeExpr{})
}

func (d *decoder) attrs(table string, docs []attrDoc, reg region) []Attr {
	if len(docs) == 0 {
		return nil
	}
	regs := d.loc.regions(table, "name", reg)
	out := make([]Attr, 0, len(docs))
	for i, a := range docs {
		span := d.loc.spanOf(table, "name", at(regs, i, reg.lo))
		out = append(out, Attr{Name: d.ident(a.Name, span), Args: slices.Clone(a.Args), Span: span})
	}
	return out
}

func (d *decoder) trait(td traitDoc, reg region) TraitDecl {
	span := d.loc.spanOf("trait", "name", reg)
	if td.Name == "" {
		d.errorf(diag.SynDeclFile, span, "trait without a name")
	}
	decl := TraitDecl{
		Name:  d.ident(td.Name, span),
		Attrs: d.attrs("trait.attr", td.Attr, reg),
		Span:  span,
	}
	for _, p := range td.Params {
		decl.TypeParams = append(decl.TypeParams, d.ident(p, d.loc.quoted(p, reg)))
	}
	switch td.Visibility {
	case "", "private":
		decl.Visibility = VisPrivate
	case "pub", "public":
		decl.Visibility = VisPublic
	default:
		d.errorf(diag.SynDeclFile, span, "unknown visibility %q of trait '%s'", td.Visibility, td.Name)
	}
	for _, st := range td.Supertraits {
		decl.Supertraits = append(decl.Supertraits, ParseSupertrait(st, d.in, d.loc.quoted(st, reg)))
	}

	fnRegs := d.loc.regions("trait.fn", "name", reg)
	for i, fd := range td.Fn {
		fn := d.fn("trait.fn", fd, at(fnRegs, i, reg.lo))
		if len(fn.Body) > 0 {
			d.errorf(diag.SynDeclFile, fn.Span, "required function '%s' must not have a body", fd.Name)
		}
		decl.Members = append(decl.Members, Member{Kind: MemberFn, Fn: fn})
	}
	providedRegs := d.loc.regions("trait.provided", "name", reg)
	for i, fd := range td.Provided {
		fn := d.fn("trait.provided", fd, at(providedRegs, i, reg.lo))
		decl.Members = append(decl.Members, Member{Kind: MemberFn, Provided: true, Fn: fn})
	}
	constRegs := d.loc.regions("trait.const", "name", reg)
	for i, cd := range td.Const {
		c := d.constant("trait.const", cd, at(constRegs, i, reg.lo))
		decl.Members = append(decl.Members, Member{Kind: MemberConst, Provided: c.Value != nil, Const: c})
	}
	typeRegs := d.loc.regions("trait.type", "name", reg)
	for i, ty := range td.Type {
		t := d.assocType("trait.type", ty, at(typeRegs, i, reg.lo))
		decl.Members = append(decl.Members, Member{Kind: MemberType, Provided: t.Default != nil, Type: t})
	}
	// TOML groups members by kind; spans restore declaration order.
	slices.SortStableFunc(decl.Members, func(a, b Member) int {
		return int(a.Span().Start) - int(b.Span().Start)
	})
	return decl
}

func (d *decoder) fn(table string, fd fnDoc, reg region) *FnDecl {
	span := d.loc.spanOf(table, "name", reg)
	if fd.Name == "" {
		d.errorf(diag.SynDeclFile, span, "function without a name")
	}
	fn := &FnDecl{
		Name:    d.ident(fd.Name, span),
		Returns: d.typeExpr(fd.Returns, span, UnitType(span)),
		Attrs:   d.attrs(table+".attr", fd.Attr, reg),
		Span:    span,
	}
	for _, tp := range fd.TypeParams {
		fn.TypeParams = append(fn.TypeParams, d.ident(tp, d.loc.quoted(tp, reg)))
	}
	for _, p := range fd.Params {
		pspan := d.loc.quoted(p.Name, reg)
		what := fmt.Sprintf("parameter '%s' of '%s'", p.Name, fd.Name)
		fn.Params = append(fn.Params, Param{
			Name:    d.ident(p.Name, pspan),
			Type:    d.requiredType(p.Type, pspan, what),
			Mutable: p.Mut,
		})
	}
	bodyTable := table + ".body"
	bodyRegs := d.loc.regions(bodyTable, "kind", reg)
	for i, ed := range fd.Body {
		espan := d.loc.spanOf(bodyTable, "kind", at(bodyRegs, i, reg.lo))
		fn.Body = append(fn.Body, d.expr(ed, espan))
	}
	return fn
}

func (d *decoder) expr(ed exprDoc, span source.Span) Expr {
	e := Expr{Span: span}
	switch ed.Kind {
	case "call":
		e.Kind = ExprCall
		if ed.Callee == "" {
			d.errorf(diag.SynDeclFile, span, "call without a callee")
		}
		e.Callee = d.ident(ed.Callee, span)
	case "lit", "literal":
		e.Kind = ExprLiteral
		if ed.Value != nil {
			e.Value = fmt.Sprint(ed.Value)
		}
	default:
		d.errorf(diag.SynUnknownMember, span, "unknown body expression kind %q", ed.Kind)
	}
	e.Type = d.typeExpr(ed.Type, span, TypeExpr{Kind: TypeExprInfer, Span: span})
	return e
}

func (d *decoder) constant(table string, cd constDoc, reg region) *ConstDecl {
	span := d.loc.spanOf(table, "name", reg)
	c := &ConstDecl{
		Name:  d.ident(cd.Name, span),
		Type:  d.requiredType(cd.Type, span, fmt.Sprintf("constant '%s'", cd.Name)),
		Attrs: d.attrs(table+".attr", cd.Attr, reg),
		Span:  span,
	}
	if cd.Value != nil {
		c.Value = &Expr{Kind: ExprLiteral, Value: fmt.Sprint(cd.Value), Type: c.Type, Span: span}
	}
	return c
}

func (d *decoder) assocType(table string, td typeDoc, reg region) *TypeDecl {
	span := d.loc.spanOf(table, "name", reg)
	t := &TypeDecl{
		Name:  d.ident(td.Name, span),
		Attrs: d.attrs(table+".attr", td.Attr, reg),
		Span:  span,
	}
	if td.Default != "" {
		def := d.typeExpr(td.Default, span, TypeExpr{})
		t.Default = &def
	}
	return t
}

func (d *decoder) impl(id implDoc, reg region) ImplDecl {
	span := d.loc.spanOf("impl", "trait", reg)
	if id.Trait == "" {
		d.errorf(diag.SynDeclFile, span, "impl without a trait")
	}
	impl := ImplDecl{
		Trait: d.ident(id.Trait, span),
		For:   d.requiredType(id.For, d.loc.spanOf("impl", "for", reg), fmt.Sprintf("impl of '%s'", id.Trait)),
		Span:  span,
	}
	for _, a := range id.Args {
		impl.Args = append(impl.Args, d.typeExpr(a, d.loc.quoted(a, reg), TypeExpr{}))
	}
	fnRegs := d.loc.regions("impl.fn", "name", reg)
	for i, fd := range id.Fn {
		impl.Fns = append(impl.Fns, *d.fn("impl.fn", fd, at(fnRegs, i, reg.lo)))
	}
	constRegs := d.loc.regions("impl.const", "name", reg)
	for i, cd := range id.Const {
		impl.Consts = append(impl.Consts, *d.constant("impl.const", cd, at(constRegs, i, reg.lo)))
	}
	typeRegs := d.loc.regions("impl.type", "name", reg)
	for i, td := range id.Type {
		impl.Types = append(impl.Types, *d.assocType("impl.type", td, at(typeRegs, i, reg.lo)))
	}
	return impl
}
