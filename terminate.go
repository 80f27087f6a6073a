package futility

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baxromumarov/futility/internal/logging"
)

// Terminate sequences the execution of a program from start to finish: an
// optional install routine, the main routine, what to do with errors, and
// the cleanup to run when each phase ends.
//
// Configure it with the chaining methods and finish with [Terminate.Execute]:
//
//	err := futility.New[error]().
//	    Install(setupTracing).
//	    ChainFaultHandler(reportCrash).
//	    OnError(futility.Annotate("at the top of main")).
//	    AtExit(flush).
//	    Execute(run)
//
// A Terminate is not safe for concurrent use and Execute may be called only
// once. Setting a hook twice keeps the last one.
type Terminate[E Error] struct {
	install func() E
	onError func(E) E
	atExit  func()
	onPhase func(PhaseEvent)
	logger  *slog.Logger

	state State
}

// New creates a controller with no hooks configured.
// It panics if E is not an interface or pointer type; see [Error].
func New[E Error]() *Terminate[E] {
	mustBeNillable[E]()
	return &Terminate[E]{
		logger: logging.NewNop(),
	}
}

// Install sets the routine run once before the main routine, e.g. to set up
// logging or tracing. If it fails, the main routine is never run.
func (t *Terminate[E]) Install(fn func() E) *Terminate[E] {
	t.install = fn
	return t
}

// ReplaceFaultHandler makes fn the only process-wide fault handler. It
// takes effect immediately, not when Execute runs. See [SetFaultHandler].
func (t *Terminate[E]) ReplaceFaultHandler(fn FaultHandler) *Terminate[E] {
	SetFaultHandler(fn)
	return t
}

// ChainFaultHandler registers fn to run first on a fault, followed by the
// handlers that were already installed. It takes effect immediately. See
// [ChainFaultHandler].
func (t *Terminate[E]) ChainFaultHandler(fn FaultHandler) *Terminate[E] {
	ChainFaultHandler(fn)
	return t
}

// OnError sets the transform applied to the error of any phase before it
// is returned and before the exit hook runs for that phase. It is meant
// for enrichment or logging and cannot abort the phase.
func (t *Terminate[E]) OnError(fn func(E) E) *Terminate[E] {
	t.onError = fn
	return t
}

// AtExit sets the routine run at the end of every phase that ran,
// regardless of its outcome. It runs once after install (when install is
// configured) and once after main.
func (t *Terminate[E]) AtExit(fn func()) *Terminate[E] {
	t.atExit = fn
	return t
}

// OnPhase sets a hook receiving a [PhaseEvent] for every phase that ran.
// It is called after the exit hook for that phase.
func (t *Terminate[E]) OnPhase(fn func(PhaseEvent)) *Terminate[E] {
	t.onPhase = fn
	return t
}

// Logger sets the logger used for phase transitions. A nil logger
// discards output, which is also the default.
func (t *Terminate[E]) Logger(l *slog.Logger) *Terminate[E] {
	if l == nil {
		l = logging.NewNop()
	}
	t.logger = l
	return t
}

// State reports where the controller is in its lifecycle.
func (t *Terminate[E]) State() State {
	return t.state
}

// Execute runs the program:
//
//  1. If an install routine is set, run it. On error, apply the error
//     transform if set. Run the exit hook if set. If install failed,
//     return its error without running main.
//  2. Run main. On error, apply the error transform if set. Run the exit
//     hook if set. Return main's result.
//
// Execute never fails on its own; the only errors it returns are those of
// the install and main routines. A panic in either routine is reported to
// the fault handlers and re-raised.
//
// Execute panics if called more than once.
func (t *Terminate[E]) Execute(main func() E) E {
	if t.state != NotStarted {
		panic("futility: Execute called more than once")
	}
	if main == nil {
		panic("futility: nil main routine")
	}
	defer ReportFault()

	runID := uuid.NewString()
	log := t.logger.With("run_id", runID)

	var zero E
	if t.install != nil {
		t.state = InstallPhase
		if err := t.runPhase(log, runID, PhaseInstall, t.install); err != zero {
			t.state = ErrorTerminated
			return err
		}
	}

	t.state = MainPhase
	err := t.runPhase(log, runID, PhaseMain, main)
	t.state = Done
	return err
}

func (t *Terminate[E]) runPhase(log *slog.Logger, runID string, p Phase, fn func() E) E {
	log = log.With("phase", p.String())
	log.Debug("phase started")

	var zero E
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err != zero && t.onError != nil {
		err = t.onError(err)
	}

	var phaseErr error
	if err != zero {
		phaseErr = err
		log.Debug("phase finished", "duration", elapsed, "error", phaseErr)
	} else {
		log.Debug("phase finished", "duration", elapsed)
	}

	if t.atExit != nil {
		t.atExit()
	}
	if t.onPhase != nil {
		t.onPhase(PhaseEvent{
			RunID:    runID,
			Phase:    p,
			Err:      phaseErr,
			Duration: elapsed,
		})
	}
	return err
}

// Annotate returns an error transform, suitable for [Terminate.OnError],
// that wraps an error as "msg: err". The original error stays reachable
// through errors.Is and errors.As. A nil error passes through unchanged.
func Annotate(msg string) func(error) error {
	return func(err error) error {
		if err == nil {
			return nil
		}
		return fmt.Errorf("%s: %w", msg, err)
	}
}
