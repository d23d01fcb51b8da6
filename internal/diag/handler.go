package diag

import (
	"errors"
	"sync"

	"tycore/internal/source"
)

// ErrEmitted means at least one error diagnostic has already been reported.
// It carries no payload; the diagnostics themselves live in the Reporter.
var ErrEmitted = errors.New("diagnostics emitted")

// Handler forwards diagnostics to another Reporter and counts them by
// severity, so passes can tell whether they produced errors.
type Handler struct {
	mu       sync.Mutex
	next     Reporter
	errors   int
	warnings int
}

func NewHandler(next Reporter) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	h.mu.Lock()
	switch sev {
	case SevError:
		h.errors++
	case SevWarning:
		h.warnings++
	}
	next := h.next
	h.mu.Unlock()
	if next != nil {
		next.Report(code, sev, primary, msg, notes)
	}
}

// Error reports an error diagnostic and returns ErrEmitted.
func (h *Handler) Error(code Code, primary source.Span, msg string) error {
	return ReportError(h, code, primary, msg).EmitErr()
}

func (h *Handler) ErrorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errors
}

func (h *Handler) WarningCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.warnings
}

func (h *Handler) HasErrors() bool {
	return h.ErrorCount() > 0
}

// Result returns ErrEmitted if any error was reported through h.
func (h *Handler) Result() error {
	if h.HasErrors() {
		return ErrEmitted
	}
	return nil
}
