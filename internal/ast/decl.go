package ast

import "tycore/internal/source"

// Param is one function parameter.
type Param struct {
	Name    source.Ident
	Type    TypeExpr
	Mutable bool
}

type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "lit"
	case ExprCall:
		return "call"
	default:
		return "invalid"
	}
}

// Expr is a body statement. Bodies are flat: a call to another trait member
// or a literal with an optional type annotation.
type Expr struct {
	Kind   ExprKind
	Callee source.Ident
	Type   TypeExpr
	Value  string
	Span   source.Span
}

// FnDecl is a function signature with an optional body.
type FnDecl struct {
	Name       source.Ident
	TypeParams []source.Ident
	Params     []Param
	Returns    TypeExpr
	Body       []Expr
	Attrs      []Attr
	Span       source.Span
}

// ConstDecl is an associated constant; Value is nil for required constants.
type ConstDecl struct {
	Name  source.Ident
	Type  TypeExpr
	Value *Expr
	Attrs []Attr
	Span  source.Span
}

// TypeDecl is an associated type; Default is nil for abstract types.
type TypeDecl struct {
	Name    source.Ident
	Default *TypeExpr
	Attrs   []Attr
	Span    source.Span
}

type MemberKind uint8

const (
	MemberFn MemberKind = iota
	MemberConst
	MemberType
)

func (k MemberKind) String() string {
	switch k {
	case MemberFn:
		return "fn"
	case MemberConst:
		return "const"
	case MemberType:
		return "type"
	default:
		return "invalid"
	}
}

// Member is one trait member in declaration order. Provided members carry a
// default body (fn), value (const) or type (associated type).
type Member struct {
	Kind     MemberKind
	Provided bool
	Fn       *FnDecl
	Const    *ConstDecl
	Type     *TypeDecl
}

func (m Member) Name() source.Ident {
	switch m.Kind {
	case MemberFn:
		return m.Fn.Name
	case MemberConst:
		return m.Const.Name
	case MemberType:
		return m.Type.Name
	default:
		panic("ast: invalid member kind")
	}
}

func (m Member) Span() source.Span {
	switch m.Kind {
	case MemberFn:
		return m.Fn.Span
	case MemberConst:
		return m.Const.Span
	case MemberType:
		return m.Type.Span
	default:
		panic("ast: invalid member kind")
	}
}

// TraitDecl is a parsed trait.
type TraitDecl struct {
	Name        source.Ident
	TypeParams  []source.Ident
	Visibility  Visibility
	Supertraits []Supertrait
	Members     []Member
	Attrs       []Attr
	Span        source.Span
}

// ImplDecl is `impl Trait<Args...> for Type { ... }`.
type ImplDecl struct {
	Trait  source.Ident
	Args   []TypeExpr
	For    TypeExpr
	Fns    []FnDecl
	Consts []ConstDecl
	Types  []TypeDecl
	Span   source.Span
}

// File is one decoded declaration file.
type File struct {
	ID source.FileID

	// Types lists nominal type names declared by the file.
	Types  []source.Ident
	Traits []TraitDecl
	Impls  []ImplDecl
}
