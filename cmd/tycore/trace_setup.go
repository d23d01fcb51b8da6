package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tycore/internal/project"
	"tycore/internal/trace"
)

// setupTracing creates the tracer described by cfg and attaches it to the
// command context. The cleanup flushes and closes it; on failure a ring
// buffer is dumped to stderr so the last events survive.
func setupTracing(cmd *cobra.Command, cfg project.Config) (func(failed bool), error) {
	tcfg, err := cfg.TraceConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace config: %w", err)
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func(failed bool) {
		if failed {
			dumpRing(cmd.ErrOrStderr(), tracer)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "trace flush: %v\n", err)
		}
		if err := tracer.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "trace close: %v\n", err)
		}
	}, nil
}

func dumpRing(w io.Writer, tracer trace.Tracer) {
	var ring *trace.RingTracer
	switch t := tracer.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring, _ = t.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "--- trace (last events) ---")
	_ = ring.Dump(w, trace.FormatText)
}
