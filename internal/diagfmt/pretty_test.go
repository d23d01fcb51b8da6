package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"tycore/internal/diag"
	"tycore/internal/source"
)

const wideFile = "[[trait]]\nname = \"日本\"\n"

func wideBag(fs *source.FileSet, path string) *diag.Bag {
	id := fs.AddVirtual(path, []byte(wideFile))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaDuplicateSymbol, source.Span{File: id, Start: 17, End: 25}, "duplicate trait '日本'").
		WithNote(source.Span{File: id, Start: 0, End: 9}, "previous declaration of '日本' is here")
	bag.Add(d)
	return bag
}

func TestPrettyCaretsUseDisplayWidth(t *testing.T) {
	fs := source.NewFileSet()
	bag := wideBag(fs, "test.tyd.toml")

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "test.tyd.toml:2:8: ERROR SEM3002: duplicate trait '日本'\n" +
		"2 | name = \"日本\"\n" +
		"  |        ^~~~~~\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := wideBag(fs, "test.tyd.toml")

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "  note: test.tyd.toml:1:1: previous declaration of '日本' is here\n") {
		t.Fatalf("expected note with location, got:\n%s", out)
	}
	if !strings.Contains(out, "1 | [[trait]]\n  | ^~~~~~~~~\n") {
		t.Fatalf("expected note snippet, got:\n%s", out)
	}
}

func TestPrettyColorAndMax(t *testing.T) {
	fs := source.NewFileSet()
	bag := wideBag(fs, "a.tyd.toml")
	bag.Add(diag.New(diag.SevWarning, diag.SynUnknownMember, source.Span{}, "unknown key"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true, Max: 1}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape sequences, got %q", out)
	}
	if strings.Contains(out, "unknown key") || !strings.Contains(out, "... 1 more diagnostics not shown") {
		t.Fatalf("Max not applied:\n%s", out)
	}
}

func TestPathModes(t *testing.T) {
	long := "/very/long/absolute/path/to/some/nested/directory/show.tyd.toml"
	tests := []struct {
		name string
		path string
		mode PathMode
		base string
		want string
	}{
		{"auto short", "traits/show.tyd.toml", PathModeAuto, "", "traits/show.tyd.toml"},
		{"auto long absolute", long, PathModeAuto, "", "show.tyd.toml"},
		{"basename", "traits/show.tyd.toml", PathModeBasename, "", "show.tyd.toml"},
		{"relative", "/home/user/project/traits/show.tyd.toml", PathModeRelative, "/home/user/project", "traits/show.tyd.toml"},
		{"absolute", long, PathModeAbsolute, "", long},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
				t.Fatalf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	bag := diag.NewBag(4)
	var buf bytes.Buffer
	if err := Summary(&buf, bag, false); err != nil || buf.String() != "ok\n" {
		t.Fatalf("empty bag: %q %v", buf.String(), err)
	}
	bag.Add(diag.NewError(diag.SemaError, source.Span{}, "x"))
	bag.Add(diag.NewError(diag.SemaError, source.Span{}, "y"))
	bag.Add(diag.New(diag.SevWarning, diag.SynUnknownMember, source.Span{}, "z"))
	buf.Reset()
	if err := Summary(&buf, bag, false); err != nil || buf.String() != "failed: 2 errors, 1 warning\n" {
		t.Fatalf("summary = %q %v", buf.String(), err)
	}
	bag.Add(diag.NewError(diag.SemaError, source.Span{}, "w"))
	bag.Add(diag.NewError(diag.SemaError, source.Span{}, "v"))
	buf.Reset()
	if err := Summary(&buf, bag, false); err != nil || !strings.HasSuffix(buf.String(), "(1 diagnostic over the limit not collected)\n") {
		t.Fatalf("summary with drops = %q %v", buf.String(), err)
	}
}
