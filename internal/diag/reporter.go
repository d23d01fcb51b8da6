package diag

import (
	"tycore/internal/source"
)

// Reporter is the sink every pass reports into.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter is a Reporter that collects diagnostics into a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	d := New(sev, code, primary, msg)
	if len(notes) > 0 {
		d.Notes = append([]Note(nil), notes...)
	}
	r.Bag.Add(d)
}

// ReportBuilder accumulates notes before emitting a diagnostic.
type ReportBuilder struct {
	reporter Reporter
	code     Code
	sev      Severity
	primary  source.Span
	msg      string
	notes    []Note
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	if r == nil {
		return nil
	}
	return &ReportBuilder{
		reporter: r,
		code:     code,
		sev:      sev,
		primary:  primary,
		msg:      msg,
	}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.notes = append(b.notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit forwards the diagnostic once; later calls are no-ops.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	b.reporter.Report(b.code, b.sev, b.primary, b.msg, b.notes)
}

// EmitErr emits and returns ErrEmitted for error-severity reports, nil otherwise.
func (b *ReportBuilder) EmitErr() error {
	if b == nil {
		return nil
	}
	b.Emit()
	if b.sev == SevError {
		return ErrEmitted
	}
	return nil
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}
