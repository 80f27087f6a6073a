package futility

import (
	"fmt"
	"runtime"
)

// PanicError wraps a recovered panic value together with the goroutine
// stack trace captured at the point of the panic.
//
// PanicError is what the process-wide fault handlers receive. After the
// handlers run, the PanicError is re-raised via panic so the program still
// terminates through Go's normal crash path.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string

	reported bool
}

// Error returns the panic value. It carries no "panic:" prefix because the
// runtime adds one when the re-raised PanicError crashes the program. Use
// %+v to include the stack trace.
func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Format implements [fmt.Formatter]. The %+v verb renders the value
// followed by the full stack trace.
func (e *PanicError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "panic: %v\n\n%s", e.Value, e.Stack)
			return
		}
		fmt.Fprint(f, e.Error())
	case 'q':
		fmt.Fprintf(f, "%q", e.Error())
	default:
		fmt.Fprint(f, e.Error())
	}
}

// Unwrap returns the panic value when it is itself an error, so callers
// can match it with errors.Is and errors.As. Otherwise it returns nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	// 8 KiB is enough for most stack traces. runtime.Stack truncates
	// gracefully if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}
