package futility

import "reflect"

// Error is the constraint for error types that can be bound by [TryAs] and
// carried by [Terminate]. Success is the zero value of the type, so only
// interface types (including error itself) and pointer types are accepted.
// A value type such as a struct with a value-receiver Error method
// satisfies the constraint but is rejected at run time with a panic: its
// zero value would be a real failure indistinguishable from success.
type Error interface {
	error
	comparable
}

// mustBeNillable panics unless E has a nil zero value.
func mustBeNillable[E Error]() {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Interface, reflect.Pointer:
	default:
		panic("futility: error type must be an interface or pointer")
	}
}

// Try runs body and returns its value. If body fails, the error is bound
// to catch and the value catch yields is returned instead. The failure
// never propagates past Try itself: a return inside body leaves body, not
// the enclosing function.
//
//	n := futility.Try(func() (int, error) {
//	    raw, err := os.ReadFile(path)
//	    if err != nil {
//	        return 0, err
//	    }
//	    return strconv.Atoi(strings.TrimSpace(string(raw)))
//	}, func(err error) int {
//	    log.Printf("using default: %v", err)
//	    return 10
//	})
//
// Panics raised inside body are faults and are not caught.
func Try[V any](body func() (V, error), catch func(err error) V) V {
	if catch == nil {
		panic("futility: nil catch")
	}
	return Attempt(body).Catch(catch)
}

// TryDo is the statement form of [Try] for try regions that yield no value.
func TryDo(body func() error, catch func(err error)) {
	if body == nil {
		panic("futility: nil try body")
	}
	if catch == nil {
		panic("futility: nil catch")
	}
	if err := body(); err != nil {
		catch(err)
	}
}

// TryAs is [Try] with a declared error type. body must fail with an E and
// catch receives that E, so a try region that can produce a different
// error type does not compile.
//
//	port := futility.TryAs(func() (int, *strconv.NumError) {
//	    ...
//	}, func(err *strconv.NumError) int {
//	    return 8080
//	})
func TryAs[E Error, V any](body func() (V, E), catch func(err E) V) V {
	if body == nil {
		panic("futility: nil try body")
	}
	if catch == nil {
		panic("futility: nil catch")
	}
	mustBeNillable[E]()

	var zero E
	v, err := body()
	if err == zero {
		return v
	}
	return catch(err)
}
