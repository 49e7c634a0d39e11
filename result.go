package refetch

// Result is the two-variant outcome of a fetch: either a value of type T or
// an *Error describing why no value was produced. The discriminant is fixed
// at construction; a Result is never both and never neither.
//
// Callers narrow with IsSuccess before touching Value or Err:
//
//	res := refetch.Execute[UserList](ctx, client, "/api/v1/users", validate)
//	if res.IsSuccess() {
//	    use(res.Value())
//	} else {
//	    log.Printf("fetch failed: %v", res.Err())
//	}
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a value as a Success result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps an error as a Failure result. A nil err is coerced to an
// Unexpected error so the Failure variant always carries a cause.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		err = &Error{Kind: KindUnexpected, Message: "failure constructed with nil error"}
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the contained value. It is the zero value of T when the
// result is a Failure; narrow with IsSuccess first.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the contained error, or nil for a Success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Unpack converts the result into Go's conventional (value, error) pair.
// The error is nil exactly when IsSuccess is true.
func (r Result[T]) Unpack() (T, error) {
	if r.err == nil {
		return r.value, nil
	}
	return r.value, r.err
}

// Map applies f to the value of a Success and wraps the output as a new
// Success. A Failure passes through untouched, preserving error identity.
//
// Map is a package-level function because Go methods cannot introduce new
// type parameters.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(f(r.value))
}

// FlatMap applies f, which itself returns a Result, to the value of a
// Success and returns f's result directly. A Failure short-circuits: f is
// never invoked and the original error is returned unchanged.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return f(r.value)
}
