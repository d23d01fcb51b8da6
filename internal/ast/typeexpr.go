package ast

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"tycore/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprInvalid TypeExprKind = iota
	// TypeExprPath is a name with optional generic arguments: `u64`, `T`, `Vec<T>`.
	TypeExprPath
	TypeExprUnit
	TypeExprTuple
	TypeExprFn
	// TypeExprInfer is `_`, a type left to inference.
	TypeExprInfer
)

// TypeExpr is an unresolved type as written.
type TypeExpr struct {
	Kind TypeExprKind
	Name source.Ident
	// Args holds generic arguments, tuple elements or fn parameters.
	Args   []TypeExpr
	Result *TypeExpr
	Span   source.Span
}

// UnitType returns `()` located at span.
func UnitType(span source.Span) TypeExpr {
	return TypeExpr{Kind: TypeExprUnit, Span: span}
}

func (t TypeExpr) IsValid() bool {
	return t.Kind != TypeExprInvalid
}

// String renders t back to its surface syntax.
func (t TypeExpr) String(in *source.Interner) string {
	var sb strings.Builder
	t.write(&sb, in)
	return sb.String()
}

func (t TypeExpr) write(sb *strings.Builder, in *source.Interner) {
	switch t.Kind {
	case TypeExprPath:
		sb.WriteString(in.MustLookup(t.Name.Name))
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			writeTypeList(sb, t.Args, in)
			sb.WriteByte('>')
		}
	case TypeExprUnit:
		sb.WriteString("()")
	case TypeExprTuple:
		sb.WriteByte('(')
		writeTypeList(sb, t.Args, in)
		sb.WriteByte(')')
	case TypeExprFn:
		sb.WriteString("fn(")
		writeTypeList(sb, t.Args, in)
		sb.WriteByte(')')
		if t.Result != nil {
			sb.WriteString(" -> ")
			t.Result.write(sb, in)
		}
	case TypeExprInfer:
		sb.WriteByte('_')
	default:
		sb.WriteString("<invalid>")
	}
}

func writeTypeList(sb *strings.Builder, list []TypeExpr, in *source.Interner) {
	for i, a := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.write(sb, in)
	}
}

// ParseType parses a type expression. Every node is located at span since
// declaration files do not track positions inside string values.
func ParseType(text string, in *source.Interner, span source.Span) (TypeExpr, error) {
	p := typeParser{text: text, in: in, span: span}
	t, err := p.parseType()
	if err != nil {
		return TypeExpr{}, err
	}
	p.skipSpace()
	if p.pos != len(p.text) {
		return TypeExpr{}, p.errorf("unexpected %q after type", p.text[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	text string
	pos  int
	in   *source.Interner
	span source.Span
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q: %s", p.text, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
}

// eat consumes tok if it comes next.
func (p *typeParser) eat(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.text[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) {
		r, size := utf8.DecodeRuneInString(p.text[p.pos:])
		if r != '_' && !unicode.IsLetter(r) && (p.pos == start || !unicode.IsDigit(r)) {
			break
		}
		p.pos += size
	}
	return p.text[start:p.pos]
}

func (p *typeParser) parseType() (TypeExpr, error) {
	if p.eat("(") {
		return p.parseParenthesized()
	}
	name := p.ident()
	switch name {
	case "":
		if p.pos >= len(p.text) {
			return TypeExpr{}, p.errorf("expected type, found end of input")
		}
		return TypeExpr{}, p.errorf("expected type at %q", p.text[p.pos:])
	case "_":
		return TypeExpr{Kind: TypeExprInfer, Span: p.span}, nil
	case "fn":
		return p.parseFn()
	}
	t := TypeExpr{
		Kind: TypeExprPath,
		Name: source.NewIdent(p.in.InternIdent(name), p.span),
		Span: p.span,
	}
	if p.eat("<") {
		args, err := p.parseList(">")
		if err != nil {
			return TypeExpr{}, err
		}
		if len(args) == 0 {
			return TypeExpr{}, p.errorf("empty generic argument list")
		}
		t.Args = args
	}
	return t, nil
}

// parseParenthesized handles `()`, `(T)` and `(A, B, ...)`; `(T,)` is a
// one-element tuple.
func (p *typeParser) parseParenthesized() (TypeExpr, error) {
	if p.eat(")") {
		return UnitType(p.span), nil
	}
	first, err := p.parseType()
	if err != nil {
		return TypeExpr{}, err
	}
	if p.eat(")") {
		return first, nil
	}
	if !p.eat(",") {
		return TypeExpr{}, p.errorf("expected ',' or ')'")
	}
	rest, err := p.parseList(")")
	if err != nil {
		return TypeExpr{}, err
	}
	elems := append([]TypeExpr{first}, rest...)
	return TypeExpr{Kind: TypeExprTuple, Args: elems, Span: p.span}, nil
}

func (p *typeParser) parseFn() (TypeExpr, error) {
	if !p.eat("(") {
		return TypeExpr{}, p.errorf("expected '(' after fn")
	}
	params, err := p.parseList(")")
	if err != nil {
		return TypeExpr{}, err
	}
	t := TypeExpr{Kind: TypeExprFn, Args: params, Span: p.span}
	if p.eat("->") {
		res, err := p.parseType()
		if err != nil {
			return TypeExpr{}, err
		}
		t.Result = &res
	} else {
		unit := UnitType(p.span)
		t.Result = &unit
	}
	return t, nil
}

// parseList reads comma separated types up to and including closer.
// A trailing comma is accepted.
func (p *typeParser) parseList(closer string) ([]TypeExpr, error) {
	var out []TypeExpr
	for {
		if p.eat(closer) {
			return out, nil
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if p.eat(",") {
			continue
		}
		if p.eat(closer) {
			return out, nil
		}
		return nil, p.errorf("expected ',' or '%s'", closer)
	}
}
