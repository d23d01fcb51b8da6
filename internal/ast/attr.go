package ast

import "tycore/internal/source"

// Attr описывает пользовательский атрибут вида `@name(args...)`.
type Attr struct {
	Name source.Ident
	Args []string
	Span source.Span
}
