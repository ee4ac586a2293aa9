package services

import (
	"context"
	"fmt"
	"time"
)

// ServiceError wraps a collaborator failure. It never escapes a component:
// every call site pairs an Attempt with an OrElse* fallback.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ServiceError) Unwrap() error { return e.Err }

// Result carries either a collaborator value or the ServiceError that
// prevented it. It makes the fallback step explicit and testable instead of
// burying it in a catch block.
type Result[T any] struct {
	value T
	err   *ServiceError
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Fail wraps a collaborator failure under the given operation name.
func Fail[T any](op string, err error) Result[T] {
	return Result[T]{err: &ServiceError{Op: op, Err: err}}
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *ServiceError { return r.err }

// OrElse returns the value, or fallback when the attempt failed.
func (r Result[T]) OrElse(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// OrElseFunc returns the value, or computes the fallback from the failure.
func (r Result[T]) OrElseFunc(fallback func(*ServiceError) T) T {
	if r.err != nil {
		return fallback(r.err)
	}
	return r.value
}

// Attempt runs a collaborator call under a bounded timeout and captures the
// outcome as a Result. Collaborators are slow or failing network operations;
// callers must never block indefinitely on them.
func Attempt[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (T, error)) Result[T] {
	if err := ctx.Err(); err != nil {
		return Fail[T](op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		return Fail[T](op, err)
	}
	return Ok(v)
}
