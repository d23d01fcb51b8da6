package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if got := Version(); got != "0.1.0-dev" {
		t.Fatalf("Version() = %q", got)
	}
}

func TestVersionOverride(t *testing.T) {
	orig := []string{Major, Minor, Patch, Suffix}
	defer func() { Major, Minor, Patch, Suffix = orig[0], orig[1], orig[2], orig[3] }()

	Major, Minor, Patch, Suffix = "1", "2", "3", " "
	if got := Version(); got != "1.2.3" {
		t.Fatalf("blank suffix must be dropped, got %q", got)
	}
}

func TestColoredWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if Colored() != Version() {
		t.Fatalf("Colored() = %q, want %q", Colored(), Version())
	}
}

func TestColoredWithColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	if Colored() == Version() {
		t.Fatalf("expected escape sequences in %q", Colored())
	}
}
