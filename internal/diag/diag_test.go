package diag

import (
	"errors"
	"testing"

	"tycore/internal/source"
)

func TestHandlerCountsAndReturnsSentinel(t *testing.T) {
	bag := NewBag(10)
	h := NewHandler(&BagReporter{Bag: bag})
	if err := h.Result(); err != nil {
		t.Fatalf("fresh handler must not report errors, got %v", err)
	}

	ReportWarning(h, SemaError, source.Span{}, "just a warning").Emit()
	if h.HasErrors() {
		t.Fatalf("warnings must not count as errors")
	}

	err := h.Error(SemaTypeMismatch, source.Span{Start: 1, End: 2}, "boom")
	if !errors.Is(err, ErrEmitted) {
		t.Fatalf("expected ErrEmitted, got %v", err)
	}
	if h.ErrorCount() != 1 || h.WarningCount() != 1 {
		t.Fatalf("unexpected counts: errors=%d warnings=%d", h.ErrorCount(), h.WarningCount())
	}
	if !errors.Is(h.Result(), ErrEmitted) {
		t.Fatalf("Result must surface ErrEmitted after an error")
	}
	if bag.Len() != 2 || !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("bag did not receive both diagnostics: %s", bag)
	}
}

func TestBuilderEmitsOnceWithNotes(t *testing.T) {
	bag := NewBag(10)
	r := &BagReporter{Bag: bag}
	b := ReportError(r, SemaDuplicateSymbol, source.Span{Start: 4, End: 8}, "duplicate").
		WithNote(source.Span{Start: 0, End: 3}, "first defined here")
	if err := b.EmitErr(); !errors.Is(err, ErrEmitted) {
		t.Fatalf("expected ErrEmitted, got %v", err)
	}
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("builder emitted %d times", bag.Len())
	}
	if got := bag.Items()[0].Notes; len(got) != 1 || got[0].Msg != "first defined here" {
		t.Fatalf("notes lost: %+v", got)
	}
	if err := ReportInfo(r, SemaInfo, source.Span{}, "fyi").EmitErr(); err != nil {
		t.Fatalf("info reports must not yield an error, got %v", err)
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	bag := NewBag(2)
	d := NewError(SemaError, source.Span{Start: 1, End: 2}, "x")
	bag.Add(d)
	bag.Add(d)
	if bag.Add(d) {
		t.Fatalf("bag accepted more than its limit")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("expected one dropped diagnostic, got %d", bag.Dropped())
	}
	bag.Sort()
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("dedup left %d items", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(&BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, SemaTraitMissingMethod, source.Span{Start: 3, End: 5}, "missing method").Emit()
	}
	ReportError(r, SemaTraitMissingMethod, source.Span{Start: 6, End: 9}, "missing method").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestFormatShortIsSorted(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.tyd.toml", []byte("line one\nline two\n"))
	diags := []Diagnostic{
		NewError(SemaTypeMismatch, source.Span{File: id, Start: 9, End: 13}, "second"),
		New(SevWarning, SemaError, source.Span{File: id, Start: 0, End: 4}, "first").
			WithNote(source.Span{File: id, Start: 5, End: 8}, "here"),
	}
	got := FormatShort(diags, fs, true)
	want := "ERROR SEM3015 a.tyd.toml:2:1 second\n" +
		"WARNING SEM3001 a.tyd.toml:1:1 first\n  note a.tyd.toml:1:6 here\n"
	if got != want {
		t.Fatalf("unexpected short output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SynDeclFile:               "SYN2001",
		SemaTypeAnnotationsNeeded: "SEM3050",
		IOLoadFileError:           "IO4001",
		ProjBadConfig:             "PRJ5001",
		UnknownCode:               "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: got %s, want %s", code, got, want)
		}
	}
	if SemaTraitMissingMethod.Title() != "Missing required trait method" {
		t.Fatalf("unexpected title %q", SemaTraitMissingMethod.Title())
	}
}
