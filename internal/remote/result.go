package remote

// Result is the outcome of a single remote call: either a value or an *Error.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failed call. A nil cause still yields a failed result.
func Err[T any](op string, cause error) Result[T] {
	if re, ok := cause.(*Error); ok {
		return Result[T]{err: re}
	}
	return Result[T]{err: &Error{Op: op, Cause: cause}}
}

// From builds a Result from the conventional (value, error) pair.
func From[T any](op string, v T, err error) Result[T] {
	if err != nil {
		return Err[T](op, err)
	}
	return Ok(v)
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the wrapped value; it is the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil.
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Get unpacks the result into the usual Go pair.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
