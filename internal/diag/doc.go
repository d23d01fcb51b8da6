// Package diag defines the diagnostic model shared by every pass.
//
// # Data model
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (see codes.go), a short Message, the Primary span and optional
// Notes pointing at related locations.
//
// # Emitting diagnostics
//
// Passes never return diagnostic payloads. They report through a Reporter,
// usually a *Handler wrapping a BagReporter, and signal "something was
// reported" by returning ErrEmitted. Callers test with errors.Is and keep
// processing siblings; the details are read from the Bag afterwards.
//
//	if err := diag.ReportError(h, diag.SemaTypeMismatch, span, msg).
//		WithNote(other, "expected because of this").
//		EmitErr(); err != nil {
//		return err
//	}
//
// Package diag does not format anything for humans beyond the short one-line
// form used by tests; rendering lives in internal/diagfmt.
package diag
