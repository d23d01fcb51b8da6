package diag

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// Bag is a bounded collection of diagnostics.
type Bag struct {
	items []Diagnostic
	max   uint16
	// dropped counts diagnostics refused because the bag was full.
	dropped int
}

func NewBag(maxItems int) *Bag {
	if maxItems <= 0 || maxItems > int(^uint16(0)) {
		maxItems = int(^uint16(0))
	}
	limit, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		panic(fmt.Errorf("diag: bag limit overflow: %w", err))
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(maxItems, 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если лимит уже достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity == SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends other's diagnostics until the bag fills up.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders diagnostics by file, position, severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		if x.Primary.File != y.Primary.File {
			return int(x.Primary.File) - int(y.Primary.File)
		}
		if x.Primary.Start != y.Primary.Start {
			return int(x.Primary.Start) - int(y.Primary.Start)
		}
		if x.Severity != y.Severity {
			return int(y.Severity) - int(x.Severity)
		}
		return int(x.Code) - int(y.Code)
	})
}

// Dedup removes diagnostics with the same code, span and message.
// Bag must be sorted first.
func (b *Bag) Dedup() {
	if len(b.items) < 2 {
		return
	}
	out := b.items[:1]
	for _, d := range b.items[1:] {
		last := out[len(out)-1]
		if last.Code == d.Code && last.Primary == d.Primary && last.Message == d.Message {
			continue
		}
		out = append(out, d)
	}
	b.items = out
}

func (b *Bag) String() string {
	var sb strings.Builder
	for _, d := range b.items {
		fmt.Fprintf(&sb, "%s %s %s\n", d.Severity, d.Code.ID(), d.Message)
	}
	return sb.String()
}
