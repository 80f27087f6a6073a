package futility

import (
	"fmt"
	"time"
)

// Phase identifies one of the two routines a [Terminate] controller runs.
type Phase int

const (
	// PhaseInstall is the optional setup routine registered via
	// [Terminate.Install].
	PhaseInstall Phase = iota

	// PhaseMain is the program's main routine passed to [Terminate.Execute].
	PhaseMain
)

func (p Phase) String() string {
	switch p {
	case PhaseInstall:
		return "install"
	case PhaseMain:
		return "main"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the position of a [Terminate] controller in its lifecycle.
//
//	NotStarted -> InstallPhase -> MainPhase -> Done
//	                   |
//	                   +-> ErrorTerminated
type State int

const (
	NotStarted State = iota
	InstallPhase
	MainPhase
	Done
	// ErrorTerminated is reached only when the install routine fails.
	// The main routine never runs.
	ErrorTerminated
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InstallPhase:
		return "install"
	case MainPhase:
		return "main"
	case Done:
		return "done"
	case ErrorTerminated:
		return "error-terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PhaseEvent describes a phase that ran to completion, successfully or
// not. It is passed to the hook registered via [Terminate.OnPhase].
type PhaseEvent struct {
	// RunID identifies the Execute call the phase belongs to.
	RunID string

	Phase Phase

	// Err is the phase's error after the error transform, or nil.
	Err error

	// Duration is the wall-clock time of the phase routine alone.
	Duration time.Duration
}

// Outcome returns "ok" or "error".
func (e PhaseEvent) Outcome() string {
	if e.Err != nil {
		return "error"
	}
	return "ok"
}
