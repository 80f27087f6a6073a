// Package futility provides two small control-flow primitives for Go
// programs: scoped try/catch expressions and a lifecycle controller for a
// program's main routine.
//
// # Try/Catch
//
// [Try] runs a try region, a closure returning a value and an error, and
// recovers locally when it fails. Returning an error from the region leaves
// only the region, so the enclosing function keeps running:
//
//	cfg := futility.Try(func() (Config, error) {
//	    raw, err := os.ReadFile(path)
//	    if err != nil {
//	        return Config{}, err
//	    }
//	    return parse(raw)
//	}, func(err error) Config {
//	    log.Printf("falling back to defaults: %v", err)
//	    return DefaultConfig
//	})
//
// The catch region runs only on failure, with the error bound to its
// parameter, and both regions yield the same type V. Use [TryDo] when the
// regions yield nothing and [TryAs] to declare a concrete error type the
// compiler checks. [Attempt] exposes the underlying tagged [Result].
//
// Panics are faults, not errors, and are never caught by a try region.
//
// # Lifecycle
//
// [Terminate] wires an optional install routine, an error transform, an
// exit hook and the main routine into one execution order:
//
//	func main() {
//	    err := futility.New[error]().
//	        Install(setup).
//	        OnError(futility.Annotate("at the top of main")).
//	        AtExit(func() { fmt.Println("exiting") }).
//	        Execute(run)
//	    if err != nil {
//	        os.Exit(1)
//	    }
//	}
//
// The exit hook runs once after install (if configured, whatever its
// outcome) and once after main. If install fails, main never runs and
// [Terminate.Execute] returns the install error.
//
// # Faults
//
// A single process-wide slot holds an ordered list of [FaultHandler]
// values. [SetFaultHandler] replaces the list, [ChainFaultHandler]
// prepends to it so earlier handlers still run afterwards. Handlers are
// invoked by [ReportFault] (deferred), [Guard], and by
// [Terminate.Execute] when the install or main routine panics. The panic
// is re-raised after the handlers run, so the process still terminates
// abnormally.
//
// Fault handler registration is a startup-time operation. Reading the
// handlers is safe from any goroutine; concurrent reconfiguration is not
// supported.
//
// # Metrics
//
// The [github.com/baxromumarov/futility/promhook] subpackage exposes phase
// and fault counters to Prometheus through [Terminate.OnPhase] and a
// chained fault handler.
package futility
