// Package deferredarg implements the uniform adapter that turns any task
// input — a plain value or a future-like handle — into a pair of
// (is ready?, extract()) operations, so the scheduler never has to special
// case argument types.
package deferredarg

import "time"

// WaitStatus is the outcome of a bounded wait on a [FutureLike] value.
type WaitStatus int

const (
	// StatusReady indicates the value is available.
	StatusReady WaitStatus = iota
	// StatusTimeout indicates the wait deadline elapsed before readiness.
	StatusTimeout
	// StatusDeferred indicates the value's producer has not yet been
	// scheduled. resulthandle.Handle never reports it; Pending args treat
	// it as not ready.
	StatusDeferred
)

// FutureLike is the capability interface that classifies a value as "future
// like" rather than immediate. Any object exposing this shape — including a
// [github.com/mvtornado/taskpool/resulthandle.Handle] returned by a prior
// Submit — is accepted as a deferred argument without adaptation code.
type FutureLike[T any] interface {
	// Get blocks until the value is available and returns it, or returns the
	// error the producer failed with.
	Get() (T, error)
	// Wait blocks until the value is available or the producer fails.
	Wait()
	// WaitFor blocks for at most d, reporting whether the value became ready.
	WaitFor(d time.Duration) WaitStatus
	// WaitUntil blocks until the deadline, reporting whether the value
	// became ready.
	WaitUntil(deadline time.Time) WaitStatus
}

// Arg is a Deferred Argument: either Immediate(value) or Pending(future).
type Arg[T any] interface {
	// IsReady reports whether Take will return without blocking. It is
	// side-effect free and safe to call repeatedly.
	IsReady() bool
	// Take consumes the argument, returning the resolved value or the
	// upstream producer's error. The scheduler only calls Take once
	// IsReady has reported true, so Take never blocks in practice.
	Take() (T, error)
}

// Immediate wraps a plain, already-available value as a Deferred Arg.
func Immediate[T any](value T) Arg[T] {
	return immediateArg[T]{value: value}
}

// Pending wraps a future-like handle as a Deferred Arg.
func Pending[T any](future FutureLike[T]) Arg[T] {
	return pendingArg[T]{future: future}
}

type immediateArg[T any] struct {
	value T
}

func (a immediateArg[T]) IsReady() bool { return true }

func (a immediateArg[T]) Take() (T, error) { return a.value, nil }

type pendingArg[T any] struct {
	future FutureLike[T]
}

func (a pendingArg[T]) IsReady() bool {
	switch a.future.WaitFor(0) {
	case StatusReady:
		return true
	case StatusTimeout, StatusDeferred:
		return false
	default:
		return false
	}
}

func (a pendingArg[T]) Take() (T, error) {
	return a.future.Get()
}
