package ast

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tycore/internal/source"
)

// keyEntry is a `key = "value"` line found under a table header.
type keyEntry struct {
	table string
	key   string
	value string
	span  source.Span // span of value without quotes
}

// locator recovers spans for decoded TOML values. The TOML decoder does not
// report positions, so the content is scanned line by line for quoted keys.
type locator struct {
	file    source.FileID
	content []byte
	size    uint32
	entries []keyEntry
}

func newLocator(file source.FileID, content []byte) *locator {
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("declaration file too large: %w", err))
	}
	l := &locator{file: file, content: content, size: size}
	table := ""
	offset := 0
	for len(content) > 0 {
		line := content
		next := len(content)
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line = content[:i]
			next = i + 1
		}
		l.scanLine(&table, line, offset)
		offset += next
		content = content[next:]
	}
	return l
}

func (l *locator) scanLine(table *string, line []byte, offset int) {
	text := string(line)
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "", strings.HasPrefix(trimmed, "#"):
		return
	case strings.HasPrefix(trimmed, "[["):
		*table = strings.TrimSpace(strings.Trim(trimmed, "[]"))
		return
	case strings.HasPrefix(trimmed, "["):
		*table = strings.TrimSpace(strings.Trim(trimmed, "[]"))
		return
	}
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return
	}
	key := strings.TrimSpace(text[:eq])
	rest := text[eq+1:]
	open := strings.IndexByte(rest, '"')
	if open < 0 || strings.TrimSpace(rest[:open]) != "" {
		return
	}
	closing := strings.IndexByte(rest[open+1:], '"')
	if closing < 0 {
		return
	}
	start := offset + eq + 1 + open + 1
	l.entries = append(l.entries, keyEntry{
		table: *table,
		key:   key,
		value: rest[open+1 : open+1+closing],
		span:  l.span(start, start+closing),
	})
}

func (l *locator) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(err)
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(err)
	}
	return source.Span{File: l.file, Start: s, End: e}
}

// find returns spans of table.key values inside [lo, hi) in file order.
func (l *locator) find(table, key string, lo, hi uint32) []source.Span {
	var out []source.Span
	for _, e := range l.entries {
		if e.table == table && e.key == key && e.span.Start >= lo && e.span.Start < hi {
			out = append(out, e.span)
		}
	}
	return out
}

// region is a byte range owned by one decoded table.
type region struct {
	lo, hi uint32
}

// regions splits [outer.lo, outer.hi) at every table.key occurrence.
// Each region starts at its key and ends right before the next one.
func (l *locator) regions(table, key string, outer region) []region {
	spans := l.find(table, key, outer.lo, outer.hi)
	out := make([]region, len(spans))
	for i, sp := range spans {
		out[i].lo = sp.Start
		if i+1 < len(spans) {
			out[i].hi = spans[i+1].Start
		} else {
			out[i].hi = outer.hi
		}
	}
	return out
}

func (l *locator) whole() region {
	return region{lo: 0, hi: l.size}
}

// at returns regions[i], or an empty region at fallback when the decoded
// value has no matching line (for example inline tables).
func at(regions []region, i int, fallback uint32) region {
	if i < len(regions) {
		return regions[i]
	}
	return region{lo: fallback, hi: fallback}
}

// spanOf returns the span of the first table.key value inside r.
func (l *locator) spanOf(table, key string, r region) source.Span {
	if spans := l.find(table, key, r.lo, r.hi); len(spans) > 0 {
		return spans[0]
	}
	return source.Span{File: l.file, Start: r.lo, End: r.lo}
}

// quoted returns the span of the first `"value"` literal inside r, quotes
// excluded. Used for values living in arrays such as `params = ["T"]`.
func (l *locator) quoted(value string, r region) source.Span {
	if r.hi > r.lo {
		needle := []byte(`"` + value + `"`)
		if i := bytes.Index(l.content[r.lo:r.hi], needle); i >= 0 {
			start := int(r.lo) + i + 1
			return l.span(start, start+len(value))
		}
	}
	return source.Span{File: l.file, Start: r.lo, End: r.lo}
}
