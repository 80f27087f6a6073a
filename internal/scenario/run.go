package scenario

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/baxromumarov/futility"
	"github.com/baxromumarov/futility/promhook"
)

// Options controls how a scenario is executed.
type Options struct {
	// Out receives the trace. If nil, io.Discard is used.
	Out io.Writer

	// Logger is handed to the controller for phase logging.
	Logger *slog.Logger

	// Metrics, when set, observes every phase.
	Metrics *promhook.Collector

	// ReportFaults chains a fault handler that writes the fault to Out
	// (and counts it in Metrics) for the duration of the run. The
	// process-wide handlers in place before Run are restored when it
	// returns or faults.
	ReportFaults bool
}

type runner struct {
	s     *Scenario
	out   io.Writer
	phase futility.Phase
}

// Run executes s through a [futility.Terminate] controller and returns
// the controller's result. Every step outcome, catch, exit hook and the
// final result are traced to opts.Out, one line each.
//
// A step that panics faults the whole run: the panic is reported to the
// fault handlers and re-raised.
func Run(s *Scenario, opts Options) error {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	r := &runner{s: s, out: out}

	r.printf("scenario: %s", s.Name)

	tm := futility.New[error]().
		Logger(opts.Logger).
		AtExit(func() {
			r.printf("exit: after %s", r.phase)
		})

	if len(s.Install) > 0 {
		tm.Install(func() error {
			r.phase = futility.PhaseInstall
			return r.runSteps(s.Install)
		})
	}
	if s.OnError != "" {
		tm.OnError(futility.Annotate(s.OnError))
	}
	if opts.Metrics != nil {
		tm.OnPhase(opts.Metrics.ObservePhase)
	}
	if opts.ReportFaults {
		saved := futility.FaultHandlers()
		defer futility.RestoreFaultHandlers(saved)

		if opts.Metrics != nil {
			tm.ChainFaultHandler(opts.Metrics.FaultHandler())
		}
		tm.ChainFaultHandler(func(pe *futility.PanicError) {
			r.printf("fault: %v", pe.Value)
		})
	}

	err := tm.Execute(func() error {
		r.phase = futility.PhaseMain
		return r.runSteps(s.Main)
	})

	if err != nil {
		r.printf("result: error: %v", err)
	} else {
		r.printf("result: ok")
	}
	return err
}

func (r *runner) runSteps(steps []Step) error {
	for _, st := range steps {
		if err := r.runStep(st); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) runStep(st Step) error {
	if st.Recover == "" {
		if _, err := st.perform(); err != nil {
			r.printf("%s: %s failed: %v", r.phase, st.Name, err)
			return fmt.Errorf("step %q: %w", st.Name, err)
		}
		r.printf("%s: %s ok", r.phase, st.Name)
		return nil
	}

	got := futility.Try(st.perform, func(err error) string {
		r.printf("%s: %s caught: %v", r.phase, st.Name, err)
		return st.Recover
	})
	r.printf("%s: %s -> %s", r.phase, st.Name, got)
	return nil
}

func (st Step) perform() (string, error) {
	if st.Panic != "" {
		panic(st.Panic)
	}
	if st.Fail != "" {
		return "", errors.New(st.Fail)
	}
	return "ok", nil
}

func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}
