package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tycore/internal/diag"
	"tycore/internal/diagfmt"
	"tycore/internal/project"
	"tycore/internal/source"
)

// loadConfig reads tycore.toml above the working directory and applies the
// persistent flags over it. A broken config file is printed as a diagnostic.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	m, err := project.Discover(".")
	if err != nil {
		var cerr *project.ConfigError
		if errors.As(err, &cerr) {
			reportConfigError(cmd.ErrOrStderr(), cerr)
			return project.Config{}, errCheckFailed
		}
		return project.Config{}, err
	}
	cfg := m.Config

	flags := cmd.Root().PersistentFlags()
	if v, err := flags.GetString("color"); err == nil && v != "" {
		cfg.Output.Color = v
	}
	if v, err := flags.GetInt("max-diagnostics"); err == nil && v > 0 {
		cfg.Check.MaxDiagnostics = v
	}
	if v, err := flags.GetString("trace"); err == nil && v != "" {
		cfg.Trace.Output = v
		if cfg.Trace.Level == "off" || cfg.Trace.Level == "" {
			cfg.Trace.Level = "phase"
		}
	}
	if v, err := flags.GetString("trace-level"); err == nil && v != "" {
		cfg.Trace.Level = v
	}
	if v, err := flags.GetString("trace-mode"); err == nil && v != "" {
		cfg.Trace.Mode = v
	}
	if v, err := flags.GetInt("trace-ring-size"); err == nil && v > 0 {
		cfg.Trace.RingSize = v
	}
	if err := cfg.Validate(); err != nil {
		return project.Config{}, fmt.Errorf("invalid flags: %w", err)
	}
	applyColor(cfg.Output.Color)
	return cfg, nil
}

// applyColor sets the global color mode. auto enables color only on a
// terminal without NO_COLOR.
func applyColor(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout)
	}
}

func reportConfigError(w io.Writer, cerr *project.ConfigError) {
	fs := source.NewFileSet()
	span := source.Span{}
	if id, err := fs.Load(cerr.Path); err == nil {
		span = spanAt(id, cerr.Offset, cerr.Len)
	}
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.ProjBadConfig, span, cerr.Msg))
	_ = diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: !color.NoColor})
}

func spanAt(file source.FileID, offset, length int) source.Span {
	start, err := safecast.Conv[uint32](offset)
	if err != nil {
		return source.Span{File: file}
	}
	n, err := safecast.Conv[uint32](max(length, 0))
	if err != nil {
		n = 0
	}
	return source.Span{File: file, Start: start, End: start + n}
}
