package types

import (
	"fmt"
	"strings"
)

// Label renders id the way it would be written in source.
func (in *Interner) Label(id TypeID) string {
	r := in.Resolve(id)
	tt, ok := in.Lookup(r)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindInt:
		if tt.Width == WidthAny {
			return "int"
		}
		return fmt.Sprintf("i%d", tt.Width)
	case KindUint:
		if tt.Width == WidthAny {
			return "uint"
		}
		return fmt.Sprintf("u%d", tt.Width)
	case KindGenericParam:
		return in.Strings.MustLookup(in.params[tt.Payload].Name)
	case KindVar:
		return fmt.Sprintf("?%d", tt.Payload)
	case KindTuple:
		return "(" + in.labelList(in.tuples[tt.Payload].Elems) + ")"
	case KindFn:
		info := in.fns[tt.Payload]
		return "fn(" + in.labelList(info.Params) + ") -> " + in.Label(info.Result)
	case KindNamed:
		info := in.named[tt.Payload]
		name := in.Strings.MustLookup(info.Name)
		if len(info.Args) == 0 {
			return name
		}
		return name + "<" + in.labelList(info.Args) + ">"
	default:
		return tt.Kind.String()
	}
}

func (in *Interner) labelList(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.Label(id)
	}
	return strings.Join(parts, ", ")
}
