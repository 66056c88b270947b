// Package resulthandle implements the caller-facing Result Handle and its
// write-once Sink, the two faces of spec §3's "Result Handle" entity.
package resulthandle

import (
	"sync"
	"time"

	"github.com/mvtornado/taskpool/deferredarg"
	"github.com/mvtornado/taskpool/poolerrors"
)

// state is the write-once slot shared by a Handle and its Sink.
type state[T any] struct {
	done     chan struct{}
	resolved sync.Once
	value    T
	err      error
}

// New creates a fresh, unresolved Result Handle and the Sink used to
// resolve it exactly once.
func New[T any]() (Handle[T], Sink[T]) {
	s := &state[T]{done: make(chan struct{})}

	return Handle[T]{s: s}, Sink[T]{s: s}
}

// Handle is the caller-facing view of a task's eventual value or failure.
// It implements [deferredarg.FutureLike], so a Handle returned from one
// Submit call can be passed directly as a deferred argument to another.
type Handle[T any] struct {
	s *state[T]
}

// Get blocks until the task completes and returns its value or error.
func (h Handle[T]) Get() (T, error) {
	<-h.s.done

	return h.s.value, h.s.err
}

// Wait blocks until the task completes, discarding the result.
func (h Handle[T]) Wait() {
	<-h.s.done
}

// WaitFor blocks for at most d, reporting whether the task completed.
func (h Handle[T]) WaitFor(d time.Duration) deferredarg.WaitStatus {
	if d <= 0 {
		select {
		case <-h.s.done:
			return deferredarg.StatusReady
		default:
			return deferredarg.StatusTimeout
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.s.done:
		return deferredarg.StatusReady
	case <-timer.C:
		return deferredarg.StatusTimeout
	}
}

// WaitUntil blocks until deadline, reporting whether the task completed.
func (h Handle[T]) WaitUntil(deadline time.Time) deferredarg.WaitStatus {
	return h.WaitFor(time.Until(deadline))
}

// Sink is the scheduler-facing, write-once producer side of a Handle.
// Resolve and Cancel are idempotent after the first call — only the first
// writer's value is ever observed, matching spec §3's "written at most once"
// invariant.
type Sink[T any] struct {
	s *state[T]
}

// Resolve publishes value and err, whichever the task produced, and wakes
// every waiter. Calling Resolve (or Cancel) more than once is a no-op after
// the first call.
func (s Sink[T]) Resolve(value T, err error) {
	s.s.resolved.Do(func() {
		s.s.value = value
		s.s.err = err
		close(s.s.done)
	})
}

// Cancel resolves the handle with [poolerrors.ErrCancelled], the "broken
// promise" signal spec §7 assigns to envelopes dropped by Abort or pool
// destruction before they executed.
func (s Sink[T]) Cancel() {
	var zero T
	s.Resolve(zero, poolerrors.ErrCancelled)
}

// IsResolved reports whether Resolve (or Cancel) has already been called.
func (s Sink[T]) IsResolved() bool {
	select {
	case <-s.s.done:
		return true
	default:
		return false
	}
}
