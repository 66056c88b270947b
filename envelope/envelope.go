// Package envelope implements the Task Envelope (spec §4.3): a
// type-erased unit pairing a callable with its Deferred Args and a
// write-once Result Sink. Envelopes are constructed here and consumed by
// the scheduler through the small structural interface it expects
// (IsReady, Execute, Cancel) — no import of the scheduler package is
// needed, Go's structural typing does the erasure for free.
package envelope

import (
	"github.com/mvtornado/taskpool/deferredarg"
	"github.com/mvtornado/taskpool/resulthandle"
	"github.com/mvtornado/taskpool/stoptoken"
)

// Envelope is the structural shape the scheduler requires of anything it
// queues: readiness, one-shot execution, and cancellation (the "broken
// promise" path taken when a pool is aborted or destroyed before the
// envelope runs).
type Envelope interface {
	// IsReady reports whether every argument has resolved. Side-effect free.
	IsReady() bool
	// Execute invokes the callable exactly once and publishes its result
	// (or the error of the first argument whose producer failed) to the
	// Result Sink.
	Execute()
	// Cancel resolves the Result Sink with [poolerrors.ErrCancelled]
	// without invoking the callable. Used when an envelope is dropped from
	// the ready queue or pending set without running.
	Cancel()
}

// New0 builds an envelope for a nullary task: no Deferred Args, no Stop
// Token.
func New0[ValueT any](fn func() (ValueT, error)) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &task0[ValueT]{fn: fn, sink: sink}, h
}

// NewWithToken0 builds an envelope for a nullary task whose last parameter
// is a [stoptoken.Token], automatically injected by the pool (spec §4.3,
// "Stop-token injection").
func NewWithToken0[ValueT any](
	token stoptoken.Token, fn func(stoptoken.Token) (ValueT, error),
) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &tokenTask0[ValueT]{fn: fn, token: token, sink: sink}, h
}

// New1 builds an envelope for a task taking a single Deferred Arg.
func New1[A1, ValueT any](
	arg1 deferredarg.Arg[A1], fn func(A1) (ValueT, error),
) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &task1[A1, ValueT]{arg1: arg1, fn: fn, sink: sink}, h
}

// NewWithToken1 builds an envelope for a task taking one Deferred Arg and
// an injected Stop Token as its last parameter.
func NewWithToken1[A1, ValueT any](
	arg1 deferredarg.Arg[A1], token stoptoken.Token, fn func(A1, stoptoken.Token) (ValueT, error),
) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &tokenTask1[A1, ValueT]{arg1: arg1, fn: fn, token: token, sink: sink}, h
}

// New2 builds an envelope for a task taking two Deferred Args.
func New2[A1, A2, ValueT any](
	arg1 deferredarg.Arg[A1], arg2 deferredarg.Arg[A2], fn func(A1, A2) (ValueT, error),
) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &task2[A1, A2, ValueT]{arg1: arg1, arg2: arg2, fn: fn, sink: sink}, h
}

// NewWithToken2 builds an envelope for a task taking two Deferred Args and
// an injected Stop Token as its last parameter.
func NewWithToken2[A1, A2, ValueT any](
	arg1 deferredarg.Arg[A1], arg2 deferredarg.Arg[A2], token stoptoken.Token,
	fn func(A1, A2, stoptoken.Token) (ValueT, error),
) (Envelope, resulthandle.Handle[ValueT]) {
	h, sink := resulthandle.New[ValueT]()

	return &tokenTask2[A1, A2, ValueT]{arg1: arg1, arg2: arg2, fn: fn, token: token, sink: sink}, h
}

type task0[ValueT any] struct {
	fn   func() (ValueT, error)
	sink resulthandle.Sink[ValueT]
}

func (t *task0[ValueT]) IsReady() bool { return true }

func (t *task0[ValueT]) Execute() {
	v, err := t.fn()
	t.sink.Resolve(v, err)
}

func (t *task0[ValueT]) Cancel() { t.sink.Cancel() }

type tokenTask0[ValueT any] struct {
	fn    func(stoptoken.Token) (ValueT, error)
	token stoptoken.Token
	sink  resulthandle.Sink[ValueT]
}

func (t *tokenTask0[ValueT]) IsReady() bool { return true }

func (t *tokenTask0[ValueT]) Execute() {
	v, err := t.fn(t.token)
	t.sink.Resolve(v, err)
}

func (t *tokenTask0[ValueT]) Cancel() { t.sink.Cancel() }

type task1[A1, ValueT any] struct {
	arg1 deferredarg.Arg[A1]
	fn   func(A1) (ValueT, error)
	sink resulthandle.Sink[ValueT]
}

func (t *task1[A1, ValueT]) IsReady() bool { return t.arg1.IsReady() }

func (t *task1[A1, ValueT]) Execute() {
	var zero ValueT
	a1, err := t.arg1.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	v, err := t.fn(a1)
	t.sink.Resolve(v, err)
}

func (t *task1[A1, ValueT]) Cancel() { t.sink.Cancel() }

type tokenTask1[A1, ValueT any] struct {
	arg1  deferredarg.Arg[A1]
	fn    func(A1, stoptoken.Token) (ValueT, error)
	token stoptoken.Token
	sink  resulthandle.Sink[ValueT]
}

func (t *tokenTask1[A1, ValueT]) IsReady() bool { return t.arg1.IsReady() }

func (t *tokenTask1[A1, ValueT]) Execute() {
	var zero ValueT
	a1, err := t.arg1.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	v, err := t.fn(a1, t.token)
	t.sink.Resolve(v, err)
}

func (t *tokenTask1[A1, ValueT]) Cancel() { t.sink.Cancel() }

type task2[A1, A2, ValueT any] struct {
	arg1 deferredarg.Arg[A1]
	arg2 deferredarg.Arg[A2]
	fn   func(A1, A2) (ValueT, error)
	sink resulthandle.Sink[ValueT]
}

func (t *task2[A1, A2, ValueT]) IsReady() bool { return t.arg1.IsReady() && t.arg2.IsReady() }

func (t *task2[A1, A2, ValueT]) Execute() {
	var zero ValueT
	a1, err := t.arg1.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	a2, err := t.arg2.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	v, err := t.fn(a1, a2)
	t.sink.Resolve(v, err)
}

func (t *task2[A1, A2, ValueT]) Cancel() { t.sink.Cancel() }

type tokenTask2[A1, A2, ValueT any] struct {
	arg1  deferredarg.Arg[A1]
	arg2  deferredarg.Arg[A2]
	fn    func(A1, A2, stoptoken.Token) (ValueT, error)
	token stoptoken.Token
	sink  resulthandle.Sink[ValueT]
}

func (t *tokenTask2[A1, A2, ValueT]) IsReady() bool { return t.arg1.IsReady() && t.arg2.IsReady() }

func (t *tokenTask2[A1, A2, ValueT]) Execute() {
	var zero ValueT
	a1, err := t.arg1.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	a2, err := t.arg2.Take()
	if err != nil {
		t.sink.Resolve(zero, err)

		return
	}
	v, err := t.fn(a1, a2, t.token)
	t.sink.Resolve(v, err)
}

func (t *tokenTask2[A1, A2, ValueT]) Cancel() { t.sink.Cancel() }
