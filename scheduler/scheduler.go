// Package scheduler implements the Dual-Queue Scheduler (spec §4.4), the
// centrepiece of the task pool: a FIFO ready queue, an insertion-ordered
// pending set for envelopes awaiting dependency resolution, and the worker
// loop that multiplexes execution duty with checker duty.
package scheduler

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"

	"github.com/mvtornado/taskpool/stoptoken"
)

// Envelope is the minimal shape the scheduler requires of queued work. The
// concrete implementation lives in package envelope; nothing here imports
// it — Go's structural typing is the erasure mechanism spec §9 asks for.
type Envelope interface {
	IsReady() bool
	Execute()
	Cancel()
}

// Recorder receives scheduler lifecycle events for optional observability.
// A nil Recorder is valid and every call below is a no-op in that case —
// the scheduling core never requires metrics to function (spec §1: logging
// and instrumentation are external collaborators).
type Recorder interface {
	TaskAdmitted(ready bool)
	TaskPromoted()
	TaskStarted()
	TaskCompleted()
	TaskCancelled()
}

// Scheduler implements spec §4.4 verbatim: two mutexes (muReady, muPending),
// two condition variables sharing muReady's lock (condAdded, condDone), and
// atomic counters for the quantities spec §8 requires to be observable
// under the appropriate lock.
type Scheduler struct {
	stopFlag *stoptoken.Flag
	recorder Recorder

	muReady   sync.Mutex
	condAdded *sync.Cond
	condDone  *sync.Cond
	ready     []Envelope
	paused    atomic.Bool
	waiting   atomic.Bool

	muPending sync.Mutex
	pending   []Envelope

	tasksQueued  atomic.Int64
	tasksRunning atomic.Int64

	workers sync.WaitGroup
}

// New creates a Scheduler bound to stopFlag. The Scheduler does not own the
// flag's lifecycle — the pool facade raises and clears it. readyQueueHint
// preallocates the ready queue's backing slice.
func New(stopFlag *stoptoken.Flag, recorder Recorder, readyQueueHint int) *Scheduler {
	s := &Scheduler{stopFlag: stopFlag, recorder: recorder}
	s.condAdded = sync.NewCond(&s.muReady)
	s.condDone = sync.NewCond(&s.muReady)
	if readyQueueHint > 0 {
		s.ready = make([]Envelope, 0, readyQueueHint)
	}

	return s
}

func (s *Scheduler) record(f func(Recorder)) {
	if s.recorder != nil {
		f(s.recorder)
	}
}

// Start launches n worker goroutines.
func (s *Scheduler) Start(n int) {
	s.workers.Add(n)
	for i := 0; i < n; i++ {
		go s.workerLoop()
	}
}

// StopAndJoin wakes every worker blocked on the ready-queue condition and
// waits for all worker goroutines to return. The caller must have already
// raised the Stop Flag (directly via abort, or via pool destruction).
func (s *Scheduler) StopAndJoin() {
	s.muReady.Lock()
	s.condAdded.Broadcast()
	s.condDone.Broadcast()
	s.muReady.Unlock()
	s.workers.Wait()
}

// Submit admits a brand-new envelope: this is the only call that increments
// tasksQueued, since promotion re-admits an envelope already counted (spec
// §4.4, Admission).
func (s *Scheduler) Submit(e Envelope) {
	s.tasksQueued.Add(1)
	ready := e.IsReady()
	s.record(func(r Recorder) { r.TaskAdmitted(ready) })
	s.admit(e, ready)
}

// admit routes e to the ready queue or the pending set per its readiness,
// per spec §4.4's Admission protocol. It never holds muPending and muReady
// at the same time.
func (s *Scheduler) admit(e Envelope, ready bool) {
	if ready {
		s.muReady.Lock()
		s.ready = append(s.ready, e)
		s.muReady.Unlock()
		s.condAdded.Signal()

		return
	}

	s.muPending.Lock()
	s.pending = append(s.pending, e)
	s.muPending.Unlock()
	// Still notify: a worker may be idle specifically to pick up checker duty.
	s.condAdded.Signal()
}

// tryCheck attempts the non-blocking checker role (spec §4.4, step 1). It
// returns true if it promoted at least one envelope.
//
// The try-locked critical section only copies s.pending into an immutable
// snapshot (see [github.com/benbjohnson/immutable]) in insertion order; the
// IsReady calls themselves — the part with unbounded cost, since readiness
// can chain through arbitrarily many upstream Deferred Args — run after the
// lock is released, so one checker's scan never holds muPending for longer
// than a slice copy.
func (s *Scheduler) tryCheck() bool {
	if !s.muPending.TryLock() {
		return false
	}
	if len(s.pending) == 0 {
		s.muPending.Unlock()

		return false
	}

	b := immutable.NewListBuilder[Envelope]()
	for _, e := range s.pending {
		b.Append(e)
	}
	snapshot := b.List()
	s.muPending.Unlock()

	readyNow := make([]Envelope, 0)
	readySet := make(map[Envelope]struct{}, snapshot.Len())
	for itr := snapshot.Iterator(); !itr.Done(); {
		_, e := itr.Next()
		if e.IsReady() {
			readyNow = append(readyNow, e)
			readySet[e] = struct{}{}
		}
	}

	if len(readyNow) == 0 {
		return false
	}

	// Re-acquire muPending just long enough to drop the envelopes the
	// off-lock scan found ready; anything submitted to the pending set while
	// the lock was released is untouched and picked up by the next check.
	// Only envelopes still present are promoted: a checker whose scan
	// overlapped this one may already have removed and re-admitted some.
	s.muPending.Lock()
	stillPending := s.pending[:0:0]
	promotedNow := make([]Envelope, 0, len(readyNow))
	for _, e := range s.pending {
		if _, promoted := readySet[e]; promoted {
			promotedNow = append(promotedNow, e)
		} else {
			stillPending = append(stillPending, e)
		}
	}
	s.pending = stillPending
	s.muPending.Unlock()

	if len(promotedNow) == 0 {
		return false
	}

	// Wake one more worker so the checker role keeps rotating, then
	// re-admit the newly-ready envelopes in the order the checker observed
	// them (spec §4.4, ordering guarantees).
	s.condAdded.Signal()
	for _, e := range promotedNow {
		s.record(func(r Recorder) { r.TaskPromoted() })
		s.admit(e, true)
	}

	return true
}

// consumeOne blocks until an envelope is available for this worker, the
// pool is paused (in which case it keeps waiting without dispatching), or
// the Stop Flag is observed. Each time it is woken with nothing to
// dispatch, it releases muReady and takes a turn at checker duty before
// waiting again. It returns (nil, true) when the worker should exit.
func (s *Scheduler) consumeOne() (Envelope, bool) {
	s.muReady.Lock()
	for {
		if s.stopFlag.Triggered() {
			s.muReady.Unlock()

			return nil, true
		}
		if !s.paused.Load() && len(s.ready) > 0 {
			break
		}
		s.condAdded.Wait()
		if s.paused.Load() || len(s.ready) == 0 {
			s.muReady.Unlock()
			s.tryCheck()
			s.muReady.Lock()
		}
	}

	e := s.ready[0]
	s.ready = s.ready[1:]
	s.tasksRunning.Add(1)
	s.muReady.Unlock()

	return e, false
}

func (s *Scheduler) workerLoop() {
	defer s.workers.Done()

	for {
		s.tryCheck()

		e, stop := s.consumeOne()
		if stop {
			return
		}

		s.record(func(r Recorder) { r.TaskStarted() })
		e.Execute()
		s.tasksRunning.Add(-1)
		s.tasksQueued.Add(-1)
		s.record(func(r Recorder) { r.TaskCompleted() })

		if s.waiting.Load() {
			s.muReady.Lock()
			s.condDone.Signal()
			s.muReady.Unlock()
		}
	}
}

// Pause stops the ready queue from dispatching to workers. Promotion from
// the pending set continues (spec §4.5).
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

// Unpause resumes dispatch and wakes every worker so it can re-observe the
// ready queue.
func (s *Scheduler) Unpause() {
	s.paused.Store(false)
	s.muReady.Lock()
	s.condAdded.Broadcast()
	s.muReady.Unlock()
}

// IsPaused reports the current pause state.
func (s *Scheduler) IsPaused() bool {
	return s.paused.Load()
}

// WaitForTasks blocks until the ready queue and running count reach zero
// (or, while paused, until running reaches zero) per spec §4.5. It never
// touches the Stop Flag.
func (s *Scheduler) WaitForTasks() {
	s.waiting.Store(true)
	defer s.waiting.Store(false)

	s.muReady.Lock()
	defer s.muReady.Unlock()
	for {
		running := s.tasksRunning.Load()
		if s.stopFlag.Triggered() {
			return
		}
		if s.paused.Load() {
			if running == 0 {
				return
			}
		} else if len(s.ready) == 0 && running == 0 {
			return
		}
		s.condDone.Wait()
	}
}

// DrainCancelled removes every remaining envelope from the ready queue and
// pending set, decrements tasksQueued accordingly, and returns them so the
// caller can resolve their Result Handles with the cancellation signal
// (spec §4.5, Abort / Destruction).
func (s *Scheduler) DrainCancelled() []Envelope {
	s.muPending.Lock()
	pending := s.pending
	s.pending = nil
	s.muPending.Unlock()

	s.muReady.Lock()
	ready := s.ready
	s.ready = nil
	s.muReady.Unlock()

	dropped := make([]Envelope, 0, len(pending)+len(ready))
	dropped = append(dropped, pending...)
	dropped = append(dropped, ready...)
	if len(dropped) > 0 {
		s.tasksQueued.Add(-int64(len(dropped)))
	}
	for range dropped {
		s.record(func(r Recorder) { r.TaskCancelled() })
	}

	return dropped
}

// TasksQueued returns |R| + |P| + running.
func (s *Scheduler) TasksQueued() int64 { return s.tasksQueued.Load() }

// TasksRunning returns the number of envelopes currently executing.
func (s *Scheduler) TasksRunning() int64 { return s.tasksRunning.Load() }

// TasksTotal is synonymous with TasksQueued at the public surface (spec §4.4).
func (s *Scheduler) TasksTotal() int64 { return s.TasksQueued() }

// ReadyLen and PendingLen are diagnostic accessors used by tests; they
// briefly take the relevant lock.
func (s *Scheduler) ReadyLen() int {
	s.muReady.Lock()
	defer s.muReady.Unlock()

	return len(s.ready)
}

// PendingLen reports the current size of the pending set.
func (s *Scheduler) PendingLen() int {
	s.muPending.Lock()
	defer s.muPending.Unlock()

	return len(s.pending)
}
