// Package trace records what the checker is doing: driver steps, passes,
// trait instantiations and per-item finalization.
//
// # Usage
//
//	tycore check --trace=- --trace-level=detail traits.tyd.toml
//
// # Tracers
//
//   - Nop: default, zero overhead
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for dumps and tests
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level selects which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass
//   - LevelDetail: adds ScopeDecl (one span per trait, impl or instantiation)
//   - LevelDebug: adds ScopeItem (one span per member)
//
// # Propagation
//
// The driver keeps the tracer in a context; sema and mono receive it
// explicitly because they never block and take no context.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
//	defer span.End("")
package trace
