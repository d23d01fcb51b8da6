package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	root := Begin(ring, ScopePass, "sema", 0)
	Begin(ring, ScopeDecl, "trait:Show", root.ID()).End("")
	Begin(ring, ScopeItem, "item:show", root.ID()).End("")
	root.End("ok")

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+":"+ev.Name)
	}
	got := strings.Join(names, ",")
	want := "begin:sema,begin:trait:Show,end:trait:Show,end:sema"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestErrorPointsPassErrorLevel(t *testing.T) {
	ring := NewRingTracer(4, LevelError)
	Point(ring, ScopeDriver, "ignored", "", 0)
	ErrorPoint(ring, ScopeItem, "finalize:twice", "type annotations needed", 0)
	events := ring.Snapshot()
	if len(events) != 1 || events[0].Kind != KindError {
		t.Fatalf("expected exactly the error point, got %+v", events)
	}
}

func TestRingWrapsInOrder(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeItem, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}
	if events[0].Seq >= events[1].Seq {
		t.Fatalf("sequence numbers must increase")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(st, ScopePass, "decode", 0).WithExtra("file", "a.tyd.toml").End("")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], `"kind":"end"`) || !strings.Contains(lines[1], `"file":"a.tyd.toml"`) {
		t.Fatalf("unexpected end event %s", lines[1])
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}
	ctx := WithTracer(context.Background(), NewRingTracer(1, LevelPhase))
	if !FromContext(ctx).Enabled() {
		t.Fatalf("tracer lost in context")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must fall back to Nop")
	}
	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(9)}); err == nil {
		t.Fatalf("unknown mode must fail")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("unknown level must fail")
	}
}

func TestParseLevelAnyCase(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "DETAIL": LevelDetail, "Phase": LevelPhase, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
}

func TestBothModeKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeDriver, "cache:hit", "a.tyd.toml", 0)
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("both mode must build a MultiTracer, got %T", tr)
	}
	ring, ok := multi.Ring()
	if !ok || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring did not receive the event")
	}
	var dump bytes.Buffer
	if err := ring.Dump(&dump, FormatText); err != nil || !strings.Contains(dump.String(), "cache:hit") {
		t.Fatalf("dump = %q, %v", dump.String(), err)
	}
	if !strings.Contains(buf.String(), "cache:hit") {
		t.Fatalf("stream missed the event: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
