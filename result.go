package futility

// Result holds the tagged outcome of a fallible unit: either a value or an
// error. Create one via [Attempt].
type Result[V any] struct {
	val V
	err error
}

// Attempt invokes body immediately and captures its outcome. Returning an
// error from body leaves only body itself, never the caller of Attempt.
//
//	r := futility.Attempt(func() (int, error) {
//	    return strconv.Atoi(s)
//	})
//	if !r.Ok() {
//	    log.Println(r.Err())
//	}
func Attempt[V any](body func() (V, error)) Result[V] {
	if body == nil {
		panic("futility: nil try body")
	}
	v, err := body()
	if err != nil {
		var zero V
		return Result[V]{val: zero, err: err}
	}
	return Result[V]{val: v}
}

// Ok reports whether the unit completed without error.
func (r Result[V]) Ok() bool {
	return r.err == nil
}

// Value returns the produced value, or the zero value of V on failure.
func (r Result[V]) Value() V {
	return r.val
}

// Err returns the error the unit failed with, or nil.
func (r Result[V]) Err() error {
	return r.err
}

// Unwrap returns the value and the error.
func (r Result[V]) Unwrap() (V, error) {
	return r.val, r.err
}

// Catch returns the value on success. On failure it calls catch with the
// error and returns what catch yields. catch is never called on success.
func (r Result[V]) Catch(catch func(err error) V) V {
	if catch == nil {
		panic("futility: nil catch")
	}
	if r.err == nil {
		return r.val
	}
	return catch(r.err)
}
