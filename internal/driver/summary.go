package driver

import (
	"fmt"
	"strings"

	"tycore/internal/diag"
	"tycore/internal/sema"
	"tycore/internal/source"
	"tycore/internal/ty"
)

// Summary is what the disk cache keeps of a checked file: enough to print
// the same diagnostics and a listing without checking again. Spans are
// stored without their FileID and rebased on load.
type Summary struct {
	Schema      uint16
	Path        string
	Traits      []TraitSummary
	Impls       []string
	Diagnostics []CachedDiagnostic
	Broken      bool
}

type TraitSummary struct {
	Name    string
	Params  int
	Surface int
	Items   int
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// Summarize records the outcome of checking one file.
func Summarize(path string, e *ty.Engines, res sema.Result, bag *diag.Bag) *Summary {
	s := &Summary{Path: path, Broken: bag.HasErrors()}
	for _, r := range res.Traits {
		tr := e.Decls.Trait(r)
		s.Traits = append(s.Traits, TraitSummary{
			Name:    e.Name(tr.Name),
			Params:  len(tr.TypeParams),
			Surface: len(tr.InterfaceSurface),
			Items:   len(tr.Items),
		})
	}
	for _, im := range res.Impls {
		s.Impls = append(s.Impls, ImplLabel(e, im))
	}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		s.Diagnostics = append(s.Diagnostics, cd)
	}
	return s
}

// Replay adds the cached diagnostics to bag with spans in file.
func (s *Summary) Replay(file source.FileID, bag *diag.Bag) {
	for _, cd := range s.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
}

// ImplLabel renders an impl header such as "Show<u64> for Point".
func ImplLabel(e *ty.Engines, im *sema.Impl) string {
	var sb strings.Builder
	sb.WriteString(e.Name(im.Trait.Name()))
	if len(im.Args) > 0 {
		labels := make([]string, len(im.Args))
		for i, a := range im.Args {
			labels[i] = e.Types.Label(a)
		}
		fmt.Fprintf(&sb, "<%s>", strings.Join(labels, ", "))
	}
	sb.WriteString(" for ")
	sb.WriteString(e.Types.Label(im.For))
	return sb.String()
}
