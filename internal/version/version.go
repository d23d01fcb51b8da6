package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata for the tycore CLI. Every variable can be overridden at
// build time via -ldflags "-X tycore/internal/version.Major=...".
var (
	Major = "0"
	Minor = "1"
	Patch = "0"
	// Suffix is appended after a dash, e.g. "dev" or "rc1".
	Suffix = "dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Version returns the plain semantic version, e.g. "0.1.0-dev".
func Version() string {
	v := Major + "." + Minor + "." + Patch
	if s := strings.TrimSpace(Suffix); s != "" {
		v += "-" + s
	}
	return v
}

// Colored returns Version with each component colorized. Colors follow
// color.NoColor, so the result equals Version when output is not a terminal.
func Colored() string {
	v := majorColor.Sprint(Major) + "." + minorColor.Sprint(Minor) + "." + patchColor.Sprint(Patch)
	if s := strings.TrimSpace(Suffix); s != "" {
		v += "-" + s
	}
	return v
}
