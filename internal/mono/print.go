package mono

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"tycore/internal/decl"
	"tycore/internal/ty"
)

// Row is one member of an instantiation as shown by Dump.
type Row struct {
	Section   string // "surface" or "item"
	Kind      ty.ItemKind
	Name      string
	Template  decl.AnyID
	Instance  decl.AnyID
	Signature string
}

// Rows lists the members of inst in declaration order, surface first.
func Rows(e *ty.Engines, inst *Instantiation) []Row {
	template := e.Decls.Trait(inst.Template)
	rows := make([]Row, 0, len(template.InterfaceSurface)+len(template.Items))
	for i, it := range inst.Trait.InterfaceSurface {
		rows = append(rows, Row{
			Section:   "surface",
			Kind:      it.Kind,
			Name:      e.Name(it.Name()),
			Template:  template.InterfaceSurface[i].Any(),
			Instance:  it.Any(),
			Signature: it.Signature(e),
		})
	}
	for i, it := range inst.Trait.Items {
		rows = append(rows, Row{
			Section:   "item",
			Kind:      it.Kind,
			Name:      e.Name(it.Name()),
			Template:  template.Items[i].Any(),
			Instance:  it.Any(),
			Signature: it.Signature(e),
		})
	}
	return rows
}

// Dump writes inst as an aligned table. Column widths follow the display
// width of their contents so non-ASCII names line up.
func Dump(w io.Writer, e *ty.Engines, inst *Instantiation) error {
	rows := Rows(e, inst)
	header := []string{"SECTION", "KIND", "NAME", "TEMPLATE", "INSTANCE", "SIGNATURE"}
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, r := range rows {
		cells = append(cells, []string{
			r.Section, r.Kind.String(), r.Name, r.Template.String(), r.Instance.String(), r.Signature,
		})
	}
	widths := make([]int, len(header))
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	if _, err := fmt.Fprintf(w, "%s -> %s\n", inst.Template.Any(), inst.Instance.Any()); err != nil {
		return err
	}
	var sb strings.Builder
	for _, row := range cells {
		sb.Reset()
		for i, c := range row {
			if i == len(row)-1 {
				sb.WriteString(c)
				break
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
