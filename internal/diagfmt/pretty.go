package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tycore/internal/diag"
	"tycore/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид. Ожидается, что
// bag.Sort() уже вызван. Для каждой диагностики печатается
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строка исходника с подчёркиванием ^~~~ по Span и, при ShowNotes,
// заметки в том же формате.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	var sb strings.Builder
	for _, d := range items {
		sev := p.severity(d.Severity)
		fmt.Fprintf(&sb, "%s: %s %s: %s\n",
			p.bold.Sprint(location(fs, d.Primary, opts.PathMode, opts.BaseDir)),
			sev.Sprint(d.Severity.String()), sev.Sprint(d.Code.ID()), d.Message)
		writeSnippet(&sb, fs, d.Primary, p, sev)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  %s %s: %s\n", p.note.Sprint("note:"),
				location(fs, n.Span, opts.PathMode, opts.BaseDir), n.Msg)
			writeSnippet(&sb, fs, n.Span, p, p.note)
		}
	}
	if omitted := bag.Len() - len(items); omitted > 0 {
		fmt.Fprintf(&sb, "... %d more diagnostics not shown\n", omitted)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Summary prints the error and warning totals of bag.
func Summary(w io.Writer, bag *diag.Bag, colored bool) error {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	p := newPalette(colored)
	var err error
	switch {
	case errs > 0:
		_, err = fmt.Fprintf(w, "%s %s, %s\n", p.err.Sprint("failed:"), plural(errs, "error"), plural(warns, "warning"))
	case warns > 0:
		_, err = fmt.Fprintf(w, "%s with %s\n", p.warn.Sprint("ok"), plural(warns, "warning"))
	default:
		_, err = fmt.Fprintln(w, "ok")
	}
	if err == nil && bag.Dropped() > 0 {
		_, err = fmt.Fprintf(w, "(%s over the limit not collected)\n", plural(bag.Dropped(), "diagnostic"))
	}
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, baseDir string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, baseDir), start.Line, start.Col)
}

// writeSnippet prints the first line of sp with a caret underline. Columns
// are display columns, so wide runes shift the carets by their width.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, sp source.Span, p palette, mark *color.Color) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	startCol := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, startCol), len(line))
	}

	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(sb, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)

	var lead strings.Builder
	for _, r := range line[:startCol] {
		if r == '\t' {
			lead.WriteByte('\t')
			continue
		}
		lead.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[startCol:endCol]), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(sb, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), lead.String(), mark.Sprint(underline))
}
