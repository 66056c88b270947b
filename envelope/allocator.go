package envelope

import (
	"sync/atomic"

	"github.com/mvtornado/taskpool/poolerrors"
)

// Allocator models spec §4.5's "Custom allocator" capability in Go terms: a
// bounded source of envelope storage that Submit can exhaust synchronously
// (spec §7, error taxonomy #3). There is no allocator object in Go the way
// there is in the source language, so this is the idiomatic stand-in —
// a counted, poolable budget rather than a raw-memory arena — while keeping
// the same observable contract: submission fails synchronously when the
// allocator cannot supply storage, and allocations/deallocations are
// counted so a caller can verify every envelope it allocated was released
// (spec §8, "Allocator counts").
type Allocator struct {
	max           int64 // 0 means unbounded
	allocations   atomic.Int64
	deallocations atomic.Int64
}

// NewAllocator creates an Allocator. max <= 0 means unbounded: every
// Acquire succeeds and only the allocations/deallocations counters are
// maintained.
func NewAllocator(max int) *Allocator {
	return &Allocator{max: int64(max)}
}

// Acquire reserves storage for one envelope, or returns
// [poolerrors.ErrAllocation] if the allocator's budget is exhausted.
func (a *Allocator) Acquire() error {
	if a.max <= 0 {
		a.allocations.Add(1)

		return nil
	}

	// Optimistically claim a slot, then roll back if the budget was
	// already exhausted. A momentary race with a concurrent Release can
	// cause a spurious rejection, never an over-admission.
	outstanding := a.allocations.Add(1) - a.deallocations.Load()
	if outstanding > a.max {
		a.allocations.Add(-1)

		return poolerrors.ErrAllocation
	}

	return nil
}

// Release returns storage for one envelope. Called exactly once per
// Acquire, by Execute or Cancel.
func (a *Allocator) Release() {
	a.deallocations.Add(1)
}

// Allocations returns the running count of successful Acquire calls.
func (a *Allocator) Allocations() int64 { return a.allocations.Load() }

// Deallocations returns the running count of Release calls.
func (a *Allocator) Deallocations() int64 { return a.deallocations.Load() }

// WithAllocator wraps inner so alloc.Release is called exactly once no
// matter which path the envelope leaves the system by: normal Execute, or
// Cancel on abort/destruction. This keeps the allocations == deallocations
// invariant (spec §8, "Allocator counts") even for envelopes that are
// dropped rather than run.
func WithAllocator(alloc *Allocator, inner Envelope) Envelope {
	return &allocatedEnvelope{alloc: alloc, inner: inner}
}

type allocatedEnvelope struct {
	alloc *Allocator
	inner Envelope
}

func (e *allocatedEnvelope) IsReady() bool { return e.inner.IsReady() }

func (e *allocatedEnvelope) Execute() {
	defer e.alloc.Release()
	e.inner.Execute()
}

func (e *allocatedEnvelope) Cancel() {
	defer e.alloc.Release()
	e.inner.Cancel()
}
