package driver

import (
	"context"
	"io"
	"time"

	"zlang/internal/diag"
	"zlang/internal/observ"
	"zlang/internal/trace"
)

// DefaultMaxDiagnostics caps the bag when the request leaves it at zero.
const DefaultMaxDiagnostics = 100

// Request describes one zc invocation on a single program.
type Request struct {
	Source         string    // path to .z/.zs, "-" for stdin, or inline code
	Stdin          io.Reader // read when Source is "-"
	Stdout         io.Writer // puts output of eval; os.Stdout when nil
	LibDir         string    // where `use NAME` looks for NAME.z
	MaxDiagnostics int
	MaxDepth       int       // interpreter call depth, vm default when zero
	Cache          *AsmCache // nil disables the assembly cache
	Observer       PhaseObserver
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events of a request; called on the
// requesting goroutine.
type PhaseObserver func(PhaseEvent)

// session is the state of one request: its tracer context, bag and timer.
type session struct {
	ctx   context.Context
	req   Request
	bag   *diag.Bag
	timer *observ.Timer
}

func newSession(ctx context.Context, req Request) *session {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := req.MaxDiagnostics
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	return &session{
		ctx:   ctx,
		req:   req,
		bag:   diag.NewBag(limit),
		timer: observ.NewTimer(),
	}
}

func (s *session) reporter() diag.Reporter { return diag.BagReporter{Bag: s.bag} }

// phase runs fn as a named phase: timed, traced at pass scope and reported
// to the observer.
func (s *session) phase(name string, fn func(ctx context.Context) error) error {
	ctx, span := trace.Begin(s.ctx, trace.ScopePass, name)
	idx := s.timer.Begin(name)
	s.notify(PhaseEvent{Name: name, Status: PhaseStart})

	err := fn(ctx)

	note := ""
	if err != nil {
		note = "error"
		span.With("status", "error")
	}
	span.End(note)
	elapsed := s.timer.End(idx, note)
	s.notify(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed, Err: err})
	return err
}

func (s *session) notify(ev PhaseEvent) {
	if s.req.Observer != nil {
		s.req.Observer(ev)
	}
}

// fail makes sure the diagnostic carried by err is also in the bag, so that
// callers can render the bag alone.
func (s *session) fail(err error) error {
	if err == nil {
		return nil
	}
	if d, ok := diag.DiagnosticOf(err); ok && !s.bag.HasErrors() {
		s.bag.Add(d)
	}
	return err
}
