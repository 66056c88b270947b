package deferredarg

import (
	"errors"
	"testing"
	"time"
)

func TestImmediateIsAlwaysReady(t *testing.T) {
	a := Immediate(42)
	if !a.IsReady() {
		t.Fatal("expected an Immediate arg to report ready")
	}

	v, err := a.Take()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

// fakeFuture is a minimal FutureLike[T] stand-in for tests, resolved by
// closing ready.
type fakeFuture[T any] struct {
	ready chan struct{}
	value T
	err   error
}

func newFakeFuture[T any]() *fakeFuture[T] {
	return &fakeFuture[T]{ready: make(chan struct{})}
}

func (f *fakeFuture[T]) resolve(v T, err error) {
	f.value = v
	f.err = err
	close(f.ready)
}

func (f *fakeFuture[T]) Get() (T, error) {
	<-f.ready

	return f.value, f.err
}

func (f *fakeFuture[T]) Wait() {
	<-f.ready
}

func (f *fakeFuture[T]) WaitFor(d time.Duration) WaitStatus {
	if d <= 0 {
		select {
		case <-f.ready:
			return StatusReady
		default:
			return StatusTimeout
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-f.ready:
		return StatusReady
	case <-timer.C:
		return StatusTimeout
	}
}

func (f *fakeFuture[T]) WaitUntil(deadline time.Time) WaitStatus {
	return f.WaitFor(time.Until(deadline))
}

func TestPendingNotReadyUntilResolved(t *testing.T) {
	fut := newFakeFuture[string]()
	a := Pending[string](fut)

	if a.IsReady() {
		t.Fatal("expected Pending arg to report not-ready before resolution")
	}

	fut.resolve("done", nil)

	if !a.IsReady() {
		t.Fatal("expected Pending arg to report ready after resolution")
	}

	v, err := a.Take()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "done" {
		t.Fatalf("expected %q, got %q", "done", v)
	}
}

func TestPendingPropagatesUpstreamError(t *testing.T) {
	fut := newFakeFuture[int]()
	failure := errors.New("upstream boom")
	fut.resolve(0, failure)

	a := Pending[int](fut)
	if !a.IsReady() {
		t.Fatal("expected a failed future to still report ready (resolved, not blocked)")
	}

	_, err := a.Take()
	if !errors.Is(err, failure) {
		t.Fatalf("expected upstream error to propagate, got %v", err)
	}
}

func TestPendingIsReadyDoesNotBlock(t *testing.T) {
	fut := newFakeFuture[int]()
	a := Pending[int](fut)

	done := make(chan bool, 1)
	go func() { done <- a.IsReady() }()

	select {
	case ready := <-done:
		if ready {
			t.Fatal("expected not-ready before resolution")
		}
	case <-time.After(time.Second):
		t.Fatal("IsReady blocked on an unresolved future")
	}
}
