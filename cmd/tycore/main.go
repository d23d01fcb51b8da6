package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tycore/internal/version"
)

// errCheckFailed signals that diagnostics with errors were already printed.
var errCheckFailed = errors.New("check failed")

// newRootCmd assembles the CLI. Commands are built per call so tests can run
// them in isolation.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tycore",
		Short:         "Trait declaration checker and instantiation tool",
		Long:          `tycore checks trait and impl declaration files and shows trait instantiations`,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newMonoCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off), overrides tycore.toml")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = from tycore.toml)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer size for ring trace mode")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
