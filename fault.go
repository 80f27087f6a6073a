package futility

import (
	"log/slog"
	"sync/atomic"
)

// FaultHandler is invoked when the program hits an unrecoverable fault
// (a panic). A handler may log or report the fault but cannot resume
// normal execution: the panic is re-raised after every handler has run.
type FaultHandler func(pe *PanicError)

// handlers is the single process-wide slot. The slice it points to is
// never mutated after being stored; registration swaps in a new slice.
var handlers atomic.Pointer[[]FaultHandler]

func init() {
	ResetFaultHandlers()
}

// DefaultFaultHandler logs the fault through [slog.Default] at error level.
// It is the only handler installed at program start.
func DefaultFaultHandler(pe *PanicError) {
	slog.Default().Error("fault", "panic", pe.Value, "stack", pe.Stack)
}

// SetFaultHandler replaces every registered fault handler with h.
// It panics if h is nil.
//
// Registration is meant to happen once, during startup, before concurrent
// activity begins. Concurrent reconfiguration is unsupported.
func SetFaultHandler(h FaultHandler) {
	if h == nil {
		panic("futility: nil fault handler")
	}
	store([]FaultHandler{h})
}

// ChainFaultHandler registers h to run before the handlers already
// installed. The previous handlers are preserved and run after h, in
// their existing order. It panics if h is nil.
func ChainFaultHandler(h FaultHandler) {
	if h == nil {
		panic("futility: nil fault handler")
	}
	prev := FaultHandlers()
	next := make([]FaultHandler, 0, len(prev)+1)
	next = append(next, h)
	next = append(next, prev...)
	store(next)
}

// FaultHandlers returns a snapshot of the registered handlers in the
// order they run.
func FaultHandlers() []FaultHandler {
	p := handlers.Load()
	if p == nil {
		return nil
	}
	out := make([]FaultHandler, len(*p))
	copy(out, *p)
	return out
}

// RestoreFaultHandlers installs hs as the handler list. It is typically
// used with a snapshot taken by [FaultHandlers]. An empty hs leaves no
// handler registered.
func RestoreFaultHandlers(hs []FaultHandler) {
	next := make([]FaultHandler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			next = append(next, h)
		}
	}
	store(next)
}

// ResetFaultHandlers reinstates [DefaultFaultHandler] as the only handler.
func ResetFaultHandlers() {
	store([]FaultHandler{DefaultFaultHandler})
}

func store(hs []FaultHandler) {
	handlers.Store(&hs)
}

// HandleFault runs every registered handler front to back with pe.
// A handler that itself panics aborts the remaining handlers.
func HandleFault(pe *PanicError) {
	p := handlers.Load()
	if p == nil {
		return
	}
	for _, h := range *p {
		h(pe)
	}
}

// ReportFault recovers an in-flight panic, reports it to the fault
// handlers and re-raises it as a [*PanicError]. It must be deferred
// directly:
//
//	defer futility.ReportFault()
//
// A panic that was already reported further down the stack is re-raised
// without being dispatched a second time.
func ReportFault() {
	r := recover()
	if r == nil {
		return
	}
	panic(reportPanic(r))
}

// Guard runs fn and reports any panic it raises to the fault handlers
// before re-raising it. Use it as the body of goroutines so faults on
// any goroutine reach the same handlers:
//
//	go futility.Guard(worker)
func Guard(fn func()) {
	defer ReportFault()
	fn()
}

func reportPanic(r any) *PanicError {
	pe, ok := r.(*PanicError)
	if !ok {
		pe = newPanicError(r)
	}
	if !pe.reported {
		pe.reported = true
		HandleFault(pe)
	}
	return pe
}
