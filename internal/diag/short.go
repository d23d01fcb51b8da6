package diag

import (
	"fmt"
	"slices"
	"strings"

	"tycore/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	ERROR SEM3040 traits/show.tyd.toml:4:3 missing method "show"
//
// Lines are sorted so output is stable regardless of emission order.
// With withNotes set, each note follows its diagnostic indented by two spaces.
func FormatShort(diags []Diagnostic, fs *source.FileSet, withNotes bool) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s %s %s %s", d.Severity, d.Code.ID(), location(fs, d.Primary), d.Message))
		if withNotes {
			for _, n := range d.Notes {
				sb.WriteString(fmt.Sprintf("\n  note %s %s", location(fs, n.Span), n.Msg))
			}
		}
		lines = append(lines, sb.String())
	}
	slices.Sort(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}
