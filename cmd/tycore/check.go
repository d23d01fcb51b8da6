package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tycore/internal/diagfmt"
	"tycore/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check trait and impl declaration files",
		Long:  "Check *.tyd.toml files and report diagnostics. Directories are searched recursively.",
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "", "output format (pretty|json), overrides tycore.toml")
	cmd.Flags().Int("jobs", 0, "max parallel units (0 = from tycore.toml or GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk unit cache")
	cmd.Flags().Bool("with-notes", false, "print diagnostic notes")
	cmd.Flags().Bool("fullpath", false, "print absolute file paths")
	cmd.Flags().Bool("timings", false, "report phase timings")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = cfg.Output.Format
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, _ := flags.GetInt("jobs")
	if jobs <= 0 {
		jobs = cfg.Check.Jobs
	}
	noCache, _ := flags.GetBool("no-cache")
	withNotes, _ := flags.GetBool("with-notes")
	fullPath, _ := flags.GetBool("fullpath")
	timings, _ := flags.GetBool("timings")

	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := driver.ListFiles(args)
	if err != nil {
		return err
	}

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProf()

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	failed := true
	defer func() { cleanup(failed) }()

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		Timings:        timings,
	}
	if cfg.Check.Cache && !noCache {
		// без кэша проверка остаётся корректной
		if c, err := driver.OpenDiskCache("tycore"); err == nil {
			opts.Cache = c
		}
	}
	report, err := driver.CheckFiles(cmd.Context(), files, opts)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	bag := report.Bag(cfg.Check.MaxDiagnostics)
	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.JSON(out, bag, report.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	} else {
		err = diagfmt.Pretty(out, bag, report.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
		if err == nil {
			err = diagfmt.Summary(out, bag, !color.NoColor)
		}
	}
	if err != nil {
		return err
	}
	if report.HasErrors() {
		return errCheckFailed
	}
	failed = false
	return nil
}
