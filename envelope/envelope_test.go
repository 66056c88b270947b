package envelope

import (
	"errors"
	"testing"

	"github.com/mvtornado/taskpool/deferredarg"
	"github.com/mvtornado/taskpool/resulthandle"
	"github.com/mvtornado/taskpool/stoptoken"
)

func TestTask0ExecutePublishesValue(t *testing.T) {
	e, h := New0(func() (int, error) { return 5, nil })
	if !e.IsReady() {
		t.Fatal("expected a nullary envelope to report ready immediately")
	}

	e.Execute()

	v, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Fatalf("expected 5, got %d", v)
	}
}

func TestTask0ExecutePublishesError(t *testing.T) {
	boom := errors.New("boom")
	e, h := New0(func() (int, error) { return 0, boom })

	e.Execute()

	_, err := h.Get()
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestTask1NotReadyUntilArgResolves(t *testing.T) {
	arg, innerSink := argPair[int]()
	e, h := New1(arg, func(x int) (int, error) { return x * 2, nil })

	if e.IsReady() {
		t.Fatal("expected envelope to be not-ready while its argument is pending")
	}

	innerSink.Resolve(21, nil)

	if !e.IsReady() {
		t.Fatal("expected envelope to become ready once its argument resolves")
	}

	e.Execute()
	v, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestTask1PropagatesUpstreamArgError(t *testing.T) {
	upstream := errors.New("upstream failed")
	arg, innerSink := argPair[int]()
	innerSink.Resolve(0, upstream)

	e, h := New1(arg, func(x int) (int, error) { return x, nil })
	e.Execute()

	_, err := h.Get()
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error to propagate, got %v", err)
	}
}

func TestTask2RequiresBothArgsReady(t *testing.T) {
	a1, sink1 := argPair[int]()
	a2, sink2 := argPair[int]()
	e, h := New2(a1, a2, func(x, y int) (int, error) { return x + y, nil })

	if e.IsReady() {
		t.Fatal("expected envelope with two unresolved args to be not-ready")
	}

	sink1.Resolve(1, nil)
	if e.IsReady() {
		t.Fatal("expected envelope to remain not-ready with one arg still pending")
	}

	sink2.Resolve(2, nil)
	if !e.IsReady() {
		t.Fatal("expected envelope to become ready once both args resolve")
	}

	e.Execute()
	v, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
}

func TestTokenTask0InjectsToken(t *testing.T) {
	flag := stoptoken.NewFlag()
	flag.Raise()

	e, h := NewWithToken0(flag.Token(), func(tok stoptoken.Token) (bool, error) {
		return tok.Triggered(), nil
	})

	e.Execute()
	v, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v {
		t.Fatal("expected the injected token to observe the raised flag")
	}
}

func TestTokenTask1InjectsTokenAlongsideArg(t *testing.T) {
	flag := stoptoken.NewFlag()
	arg, sink := argPair[int]()
	sink.Resolve(10, nil)

	e, h := NewWithToken1(arg, flag.Token(), func(x int, tok stoptoken.Token) (int, error) {
		if tok.Triggered() {
			return -1, nil
		}

		return x, nil
	})

	e.Execute()
	v, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 10 {
		t.Fatalf("expected 10, got %d", v)
	}
}

func TestCancelResolvesWithoutInvokingCallable(t *testing.T) {
	invoked := false
	e, h := New0(func() (int, error) {
		invoked = true

		return 1, nil
	})

	e.Cancel()

	if invoked {
		t.Fatal("expected Cancel to never invoke the callable")
	}

	_, err := h.Get()
	if err == nil {
		t.Fatal("expected Cancel to resolve the handle with an error")
	}
}

// argPair builds a Deferred Arg backed by a real resulthandle, letting tests
// check IsReady before resolving and resolve afterward.
func argPair[T any]() (deferredarg.Arg[T], resulthandle.Sink[T]) {
	h, sink := resulthandle.New[T]()

	return deferredarg.Pending[T](h), sink
}
