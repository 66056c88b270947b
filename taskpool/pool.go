// Package taskpool implements the Pool Facade (spec §4.5): the public
// construct/destroy, submit, pause/unpause, reset, abort, wait_for_tasks,
// and stop-token surface described by spec §6.
package taskpool

import (
	"runtime"
	"sync"

	"github.com/mvtornado/taskpool/poolerrors"
	"github.com/mvtornado/taskpool/scheduler"
	"github.com/mvtornado/taskpool/stoptoken"
)

// StopToken re-exports stoptoken.Token so consumers of this package's
// Submit* helpers rarely need to import the stoptoken package directly.
type StopToken = stoptoken.Token

// Pool is the public task-pool facade. The zero value is not usable; build
// one with [New].
type Pool struct {
	cfg      *config
	stopFlag *stoptoken.Flag
	sched    *scheduler.Scheduler

	mu          sync.Mutex
	concurrency int
	aborted     bool
}

// New constructs and immediately starts a Pool with concurrency workers.
// concurrency == 0 means "use hardware concurrency, falling back to 1"
// (spec §4.5).
func New(concurrency int, opts ...Option) *Pool {
	cfg := newConfig(opts...)
	n := resolveConcurrency(concurrency)

	stopFlag := stoptoken.NewFlag()
	sched := scheduler.New(stopFlag, cfg.recorder, cfg.ReadyQueueHint)
	sched.Start(n)

	return &Pool{
		cfg:         cfg,
		stopFlag:    stopFlag,
		sched:       sched,
		concurrency: n,
	}
}

func resolveConcurrency(n int) int {
	if n > 0 {
		return n
	}

	if cpus := runtime.NumCPU(); cpus > 0 {
		return cpus
	}

	return 1
}

// checkSubmittable returns poolerrors.ErrPoolAborted if the pool is in the
// terminal aborted-without-reset state (spec §7, misuse).
func (p *Pool) checkSubmittable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.aborted {
		return poolerrors.ErrPoolAborted
	}

	return nil
}

func (p *Pool) observeQueued() {
	if p.cfg.metrics != nil {
		p.cfg.metrics.ObserveQueued(p.sched.TasksQueued())
	}
}

// Pause stops the pool from dispatching ready envelopes to workers.
// Submissions and pending-to-ready promotion continue.
func (p *Pool) Pause() {
	p.sched.Pause()
}

// Unpause resumes dispatch.
func (p *Pool) Unpause() {
	p.sched.Unpause()
}

// IsPaused reports whether the pool is currently paused.
func (p *Pool) IsPaused() bool {
	return p.sched.IsPaused()
}

// WaitForTasks blocks until the ready queue and running count reach zero
// (or, while paused, until running reaches zero). It never raises the Stop
// Flag.
func (p *Pool) WaitForTasks() {
	p.sched.WaitForTasks()
}

// GetStopToken returns a read-only view of the pool's cancellation flag.
func (p *Pool) GetStopToken() stoptoken.Token {
	return p.stopFlag.Token()
}

// GetTasksQueued returns |ready| + |pending| + running.
func (p *Pool) GetTasksQueued() int64 { return p.sched.TasksQueued() }

// GetTasksRunning returns the number of envelopes currently executing.
func (p *Pool) GetTasksRunning() int64 { return p.sched.TasksRunning() }

// GetTasksTotal is synonymous with GetTasksQueued at the public surface.
func (p *Pool) GetTasksTotal() int64 { return p.sched.TasksTotal() }

// GetThreadCount returns the pool's current worker count.
func (p *Pool) GetThreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.concurrency
}

// Abort raises the Stop Flag, stops dispatch, joins every worker, and
// drops any envelope remaining in the ready queue or pending set, resolving
// their Result Handles with [poolerrors.ErrCancelled]. It is idempotent.
func (p *Pool) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abortLocked()
}

// abortLocked performs the abort sequence; the caller must hold p.mu.
func (p *Pool) abortLocked() {
	if p.aborted {
		return
	}

	p.stopFlag.Raise()
	p.sched.StopAndJoin()
	cancelDropped(p.sched.DrainCancelled())
	p.aborted = true
}

func cancelDropped(dropped []scheduler.Envelope) {
	for _, e := range dropped {
		e.Cancel()
	}
}

// Close is the destructor-equivalent described by spec §9's design note:
// the source aborts unconditionally on destruction with no implicit wait,
// and this facade follows that reading exactly — Close is Abort, callable
// any number of times, with no attempt to drain in-flight work first. A
// caller wanting "wait, then stop" semantics must call WaitForTasks before
// Close.
func (p *Pool) Close() {
	p.Abort()
}

// Reset marks the pool paused, waits for running tasks to drain, joins the
// existing worker set, clears the Stop Flag, and restarts with n workers,
// restoring the previous paused/unpaused state (spec §4.5, §9's "portable
// reading" of reset: drain, stop, reallocate with the new count, restart).
func (p *Pool) Reset(n int) {
	n = resolveConcurrency(n)

	p.mu.Lock()
	defer p.mu.Unlock()

	wasPaused := p.sched.IsPaused()
	p.sched.Pause()
	p.sched.WaitForTasks()

	p.stopFlag.Raise()
	p.sched.StopAndJoin()
	cancelDropped(p.sched.DrainCancelled())
	p.stopFlag.Clear()
	p.aborted = false

	p.concurrency = n
	p.sched.Start(n)
	if wasPaused {
		p.sched.Pause()
	} else {
		p.sched.Unpause()
	}
}
