package trace

import (
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq numbers stored events across all tracers of the process.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID hands out span IDs; 0 is never returned and means "no parent".
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open begin/end pair. Begin on a disabled tracer or a filtered
// scope returns an inert span whose methods do nothing and whose ID is 0.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits the begin event of a span under parent.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{tracer: t, id: NextSpanID(), parent: parent, scope: scope, name: name, started: time.Now()}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) active() bool { return s != nil && s.tracer != nil }

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{Time: at, Kind: kind, Scope: s.scope, SpanID: s.id, ParentID: s.parent, Name: s.name, Detail: detail}
}

// End emits the end event with the elapsed time and any extras.
func (s *Span) End(detail string) time.Duration {
	if !s.active() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.active() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// WithCount is WithExtra for integers.
func (s *Span) WithCount(key string, n int) *Span {
	if !s.active() {
		return s
	}
	return s.WithExtra(key, strconv.Itoa(n))
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	emitPoint(t, KindPoint, scope, name, detail, parent)
}

// ErrorPoint emits a failure event. It passes every level but off.
func ErrorPoint(t Tracer, scope Scope, name, detail string, parent uint64) {
	emitPoint(t, KindError, scope, name, detail, parent)
}

func emitPoint(t Tracer, kind Kind, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: kind, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}
