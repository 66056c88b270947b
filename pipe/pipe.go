// Package pipe implements the convenience pipeline composition described by
// spec §6: "pool | f1 | f2 | f3 chains stages where each stage's Result
// Handle becomes the next stage's (single) deferred argument."
//
// Go has no deterministic destructor, so the spec's "a held pipe whose
// handle is dropped blocks until the handle resolves" is rendered as an
// explicit [Pipe.Close] rather than GC-triggered finalization.
package pipe

import (
	"github.com/mvtornado/taskpool/deferredarg"
	"github.com/mvtornado/taskpool/resulthandle"
	"github.com/mvtornado/taskpool/taskpool"
)

// Pipe is one stage of a pipeline: the pool it runs on and the Result
// Handle of its own stage.
type Pipe[T any] struct {
	pool   *taskpool.Pool
	handle resulthandle.Handle[T]
}

// Start begins a pipeline by submitting fn as its first stage.
func Start[T any](p *taskpool.Pool, fn func() (T, error)) (*Pipe[T], error) {
	h, err := taskpool.Submit0(p, fn)
	if err != nil {
		return nil, err
	}

	return &Pipe[T]{pool: p, handle: h}, nil
}

// Then chains a new stage whose sole Deferred Argument is prev's Result
// Handle. Go cannot express this as a method (methods may not introduce
// new type parameters), so chaining is a package-level function, the same
// shape the teacher uses for its own generic helpers.
func Then[T, NextT any](prev *Pipe[T], fn func(T) (NextT, error)) (*Pipe[NextT], error) {
	h, err := taskpool.Submit1[T, NextT](prev.pool, deferredarg.Pending[T](prev.handle), fn)
	if err != nil {
		return nil, err
	}

	return &Pipe[NextT]{pool: prev.pool, handle: h}, nil
}

// ThenWithToken chains a new stage that also receives the pool's Stop
// Token as its last parameter.
func ThenWithToken[T, NextT any](
	prev *Pipe[T], fn func(T, taskpool.StopToken) (NextT, error),
) (*Pipe[NextT], error) {
	h, err := taskpool.SubmitWithToken1[T, NextT](prev.pool, deferredarg.Pending[T](prev.handle), fn)
	if err != nil {
		return nil, err
	}

	return &Pipe[NextT]{pool: prev.pool, handle: h}, nil
}

// Handle returns the underlying Result Handle for this stage.
func (p *Pipe[T]) Handle() resulthandle.Handle[T] {
	return p.handle
}

// Get blocks until this stage (and transitively every upstream stage)
// completes, returning its value or error.
func (p *Pipe[T]) Get() (T, error) {
	return p.handle.Get()
}

// Close blocks until this stage resolves, discarding the result. It is the
// explicit stand-in for spec §6's "a held pipe whose handle is dropped
// blocks until the handle resolves" — Go has no destructor to hook that
// behavior to automatically.
func (p *Pipe[T]) Close() {
	p.handle.Wait()
}
