package taskpool

import (
	"github.com/creasty/defaults"

	"github.com/mvtornado/taskpool/poolmetrics"
	"github.com/mvtornado/taskpool/scheduler"
)

// config backs the functional-options constructor. Its defaults (e.g.
// ReadyQueueHint) are filled in via creasty/defaults struct tags, the
// struct-tag-default idiom used by jkilzi-assisted-migration-agent's own
// configuration types in the retrieval pack, generalizing the teacher's
// fixed constructor parameters into orthogonal options (spec §6's
// capability table has more independent knobs than the teacher's
// NewPoolBuffered(resource, concurrency, buffer)).
type config struct {
	// ReadyQueueHint preallocates the ready queue's backing slice, avoiding
	// repeated growth on the common case of many small, quickly-consumed
	// admissions.
	ReadyQueueHint int `default:"16"`

	recorder scheduler.Recorder
	metrics  *poolmetrics.Recorder
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	// creasty/defaults fills zero-valued exported fields; applying it before
	// the options run lets WithReadyQueueHint override the default.
	_ = defaults.Set(cfg)
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option configures a Pool at construction time.
type Option func(*config)

// WithMetricsRecorder attaches a poolmetrics.Recorder, wiring both the
// scheduler's internal Recorder hook and the queued-tasks gauge the facade
// updates after each successful Submit* call (completions, Abort and Reset
// do not update the gauge).
func WithMetricsRecorder(r *poolmetrics.Recorder) Option {
	return func(c *config) {
		c.recorder = r
		c.metrics = r
	}
}

// WithRecorder attaches a bare scheduler.Recorder (for callers who do not
// want the Prometheus wiring poolmetrics provides).
func WithRecorder(r scheduler.Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithReadyQueueHint overrides the ready queue's preallocated capacity.
func WithReadyQueueHint(n int) Option {
	return func(c *config) {
		c.ReadyQueueHint = n
	}
}
