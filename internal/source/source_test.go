package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to empty string, got %q ok=%v", s, ok)
	}
	a := in.Intern("show")
	b := in.Intern("show")
	if a != b {
		t.Fatalf("same string interned twice: %d != %d", a, b)
	}
	if c := in.Intern("other"); c == a {
		t.Fatalf("distinct strings share an ID")
	}
	if got := in.MustLookup(a); got != "show" {
		t.Fatalf("lookup returned %q", got)
	}
}

func TestInternIdentNormalizesNFC(t *testing.T) {
	in := NewInterner()
	composed := in.InternIdent("caf\u00e9")
	decomposed := in.InternIdent("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent identifiers must share an ID")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.tyd.toml", []byte("one\ntwo\nthree"))
	start, end := fs.Resolve(Span{File: id, Start: 4, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("unexpected start %+v", start)
	}
	if end.Line != 2 || end.Col != 4 {
		t.Fatalf("unexpected end %+v", end)
	}
	if got := fs.Get(id).GetLine(3); got != "three" {
		t.Fatalf("GetLine(3) = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	content, flags := normalize([]byte("\xEF\xBB\xBFa\r\nb\rc"))
	if string(content) != "a\nb\rc" {
		t.Fatalf("unexpected normalisation %q", content)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("missing flags: %b", flags)
	}
	if _, flags := normalize([]byte("plain\n")); flags != 0 {
		t.Fatalf("plain content must not be flagged, got %b", flags)
	}
}

func TestGetLineEdges(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a", []byte("one\n\nlast\n")))
	cases := map[uint32]string{0: "", 1: "one", 2: "", 3: "last", 4: "", 5: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Fatalf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if pos := f.Position(5); pos.String() != "3:1" {
		t.Fatalf("Position(5) = %s", pos)
	}
}

func TestSpanLen(t *testing.T) {
	if n := (Span{Start: 4, End: 6}).Len(); n != 2 {
		t.Fatalf("len = %d", n)
	}
	if !(Span{Start: 6, End: 4}).Empty() || (Span{Start: 6, End: 4}).Len() != 0 {
		t.Fatalf("inverted span must be empty")
	}
}
