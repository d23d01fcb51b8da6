package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tycore/internal/diag"
	"tycore/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag := wideBag(fs, "traits/test.tyd.toml")

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Total != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3002" || d.Title != "Duplicate symbol" {
		t.Fatalf("unexpected header fields: %+v", d)
	}
	loc := d.Location
	if loc.File != "test.tyd.toml" || loc.StartByte != 17 || loc.EndByte != 25 {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 8 || loc.EndLine != 2 || loc.EndCol != 16 {
		t.Fatalf("unexpected positions: %+v", loc)
	}
	if d.Notes != nil {
		t.Fatalf("notes are opt-in")
	}
}

func TestJSONNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	bag := wideBag(fs, "a.tyd.toml")
	bag.Add(diag.NewError(diag.SemaError, source.Span{}, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true, Max: 1})
	if out.Count != 1 || out.Total != 2 {
		t.Fatalf("Max not applied: %+v", out)
	}
	notes := out.Diagnostics[0].Notes
	if len(notes) != 1 || notes[0].Location.StartByte != 0 || notes[0].Location.EndByte != 9 {
		t.Fatalf("unexpected notes: %+v", notes)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions are opt-in")
	}
}

func TestJSONTimingsAlwaysCarryNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").
		WithNote(source.Span{}, "check: 1.00 ms"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing notes must be kept: %+v", out.Diagnostics[0])
	}
}
