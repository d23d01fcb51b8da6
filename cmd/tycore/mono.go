package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tycore/internal/diag"
	"tycore/internal/diagfmt"
	"tycore/internal/driver"
	"tycore/internal/mono"
	"tycore/internal/source"
	"tycore/internal/trace"
)

func newMonoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mono <file>",
		Short: "Instantiate a trait and print the old to new declaration mapping",
		Args:  cobra.ExactArgs(1),
		RunE:  runMono,
	}
	cmd.Flags().String("trait", "", "trait to instantiate")
	cmd.Flags().String("for", "", "type substituted for Self")
	cmd.Flags().StringArray("arg", nil, "type argument, repeated in parameter order")
	_ = cmd.MarkFlagRequired("trait")
	_ = cmd.MarkFlagRequired("for")
	return cmd
}

func runMono(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	trait, _ := cmd.Flags().GetString("trait")
	forType, _ := cmd.Flags().GetString("for")
	typeArgs, err := cmd.Flags().GetStringArray("arg")
	if err != nil {
		return fmt.Errorf("failed to get arg flag: %w", err)
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

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	u := &driver.Unit{Path: args[0], FileID: id, Bag: diag.NewBag(cfg.Check.MaxDiagnostics)}
	driver.CheckUnit(u, fs.Get(id), trace.FromContext(cmd.Context()), 0)

	var inst *mono.Instantiation
	if !u.Bag.HasErrors() {
		inst, err = driver.Instantiate(u, trait, forType, typeArgs)
		if err != nil && !errors.Is(err, diag.ErrEmitted) {
			return err
		}
	}
	if u.Bag.HasErrors() {
		u.Bag.Sort()
		if perr := diagfmt.Pretty(cmd.ErrOrStderr(), u.Bag, fs, diagfmt.PrettyOpts{Color: !color.NoColor, ShowNotes: true}); perr != nil {
			return perr
		}
		return errCheckFailed
	}
	if err := mono.Dump(cmd.OutOrStdout(), u.Engines, inst); err != nil {
		return err
	}
	failed = false
	return nil
}
