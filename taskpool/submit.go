package taskpool

import (
	"github.com/mvtornado/taskpool/deferredarg"
	"github.com/mvtornado/taskpool/envelope"
	"github.com/mvtornado/taskpool/resulthandle"
)

// Submit0 submits a nullary task with no dependencies.
// Go does not permit generic methods, so submission is modeled as a
// package-level generic function taking the pool explicitly — the exact
// shape the teacher uses for its own [workpool.Submit](ctx, pool, task).
func Submit0[ValueT any](p *Pool, fn func() (ValueT, error)) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.New0(fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// SubmitWithToken0 submits a nullary task whose last parameter receives a
// Stop Token injected by the pool, without the caller obtaining one via
// GetStopToken first (spec §8, "A callable whose last parameter is a Stop
// Token may be submitted without the caller passing a token").
func SubmitWithToken0[ValueT any](
	p *Pool, fn func(token StopToken) (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.NewWithToken0(p.GetStopToken(), fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// Submit1 submits a task taking one Deferred Argument. arg1 is built with
// [deferredarg.Immediate] or [deferredarg.Pending] — most commonly
// deferredarg.Pending over another task's [resulthandle.Handle], which
// already implements [deferredarg.FutureLike].
func Submit1[A1, ValueT any](
	p *Pool, arg1 deferredarg.Arg[A1], fn func(A1) (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.New1(arg1, fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// SubmitWithToken1 is Submit1 with an injected Stop Token as the callable's
// last parameter.
func SubmitWithToken1[A1, ValueT any](
	p *Pool, arg1 deferredarg.Arg[A1], fn func(A1, StopToken) (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.NewWithToken1(arg1, p.GetStopToken(), fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// Submit2 submits a task taking two Deferred Arguments.
func Submit2[A1, A2, ValueT any](
	p *Pool, arg1 deferredarg.Arg[A1], arg2 deferredarg.Arg[A2], fn func(A1, A2) (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.New2(arg1, arg2, fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// SubmitWithToken2 is Submit2 with an injected Stop Token as the callable's
// last parameter.
func SubmitWithToken2[A1, A2, ValueT any](
	p *Pool, arg1 deferredarg.Arg[A1], arg2 deferredarg.Arg[A2], fn func(A1, A2, StopToken) (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	e, h := envelope.NewWithToken2(arg1, arg2, p.GetStopToken(), fn)
	p.sched.Submit(e)
	p.observeQueued()

	return h, nil
}

// SubmitWithAllocator0 submits a nullary task whose envelope storage is
// reserved from alloc first. If alloc's budget is exhausted, Submit fails
// synchronously with [poolerrors.ErrAllocation] and nothing is queued
// (spec §7, submission failure). alloc.Release is called automatically
// once the task resolves (Execute) or is cancelled.
func SubmitWithAllocator0[ValueT any](
	p *Pool, alloc *envelope.Allocator, fn func() (ValueT, error),
) (resulthandle.Handle[ValueT], error) {
	if err := p.checkSubmittable(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}
	if err := alloc.Acquire(); err != nil {
		var zero resulthandle.Handle[ValueT]

		return zero, err
	}

	inner, h := envelope.New0(fn)
	p.sched.Submit(envelope.WithAllocator(alloc, inner))
	p.observeQueued()

	return h, nil
}
