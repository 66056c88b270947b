// Package poolmetrics wires the scheduler's lifecycle events to Prometheus,
// the metrics stack exercised by ChuLiYu-raft-recovery in the retrieval
// pack. It is entirely optional and lives outside the scheduling core:
// scheduler only depends on the small scheduler.Recorder interface it
// declares itself, never on this package or on Prometheus.
package poolmetrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/constraints"
)

// Recorder implements scheduler.Recorder (and is accepted by
// taskpool.WithMetricsRecorder) by incrementing a small set of Prometheus
// collectors. The caller registers Recorder's collectors with whatever
// prometheus.Registerer it uses — Recorder never self-registers, keeping
// pool construction free of global registry side effects.
type Recorder struct {
	Admitted    *prometheus.CounterVec
	Promoted    prometheus.Counter
	Started     prometheus.Counter
	Completed   prometheus.Counter
	Cancelled   prometheus.Counter
	GaugeQueued prometheus.Gauge

	lastAdmit time.Time
}

// NewRecorder builds a Recorder. labels are attached to every collector
// (e.g. a pool name), matching the label-driven style of
// ChuLiYu-raft-recovery's consensus metrics.
func NewRecorder(namespace, subsystem string, labels prometheus.Labels) *Recorder {
	constLabels := prometheus.Labels{}
	for k, v := range labels {
		constLabels[k] = v
	}

	return &Recorder{
		Admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_admitted_total",
			Help:        "Envelopes admitted to the ready queue or pending set, by destination.",
			ConstLabels: constLabels,
		}, []string{"destination"}),
		Promoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_promoted_total",
			Help:        "Envelopes promoted from the pending set to the ready queue by a checker.",
			ConstLabels: constLabels,
		}),
		Started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_started_total",
			Help:        "Envelopes that began execution.",
			ConstLabels: constLabels,
		}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_completed_total",
			Help:        "Envelopes that finished execution, successfully or not.",
			ConstLabels: constLabels,
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_cancelled_total",
			Help:        "Envelopes dropped without executing due to abort or destruction.",
			ConstLabels: constLabels,
		}),
		GaugeQueued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "tasks_queued",
			Help:        "Snapshot of tasks_queued at the last recorded event.",
			ConstLabels: constLabels,
		}),
	}
}

// Collectors returns every collector owned by Recorder, for bulk
// registration with a prometheus.Registerer.
func (r *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.Admitted, r.Promoted, r.Started, r.Completed, r.Cancelled, r.GaugeQueued}
}

// TaskAdmitted implements scheduler.Recorder.
func (r *Recorder) TaskAdmitted(ready bool) {
	r.lastAdmit = time.Now()
	if ready {
		r.Admitted.WithLabelValues("ready").Inc()

		return
	}
	r.Admitted.WithLabelValues("pending").Inc()
}

// TaskPromoted implements scheduler.Recorder.
func (r *Recorder) TaskPromoted() { r.Promoted.Inc() }

// TaskStarted implements scheduler.Recorder.
func (r *Recorder) TaskStarted() { r.Started.Inc() }

// TaskCompleted implements scheduler.Recorder.
func (r *Recorder) TaskCompleted() { r.Completed.Inc() }

// TaskCancelled implements scheduler.Recorder.
func (r *Recorder) TaskCancelled() { r.Cancelled.Inc() }

// ObserveQueued updates the queued-tasks gauge. The pool facade calls this
// after each successful submission only, so completions, Abort and Reset
// are not reflected until the next submission; it is not derived
// automatically since Recorder has no reference back to the scheduler.
func (r *Recorder) ObserveQueued(n int64) {
	r.GaugeQueued.Set(float64(n))
}

// sortedKeys returns m's keys in ascending order, generic over any ordered
// key type (golang.org/x/exp/constraints, the same pre-1.21 generic
// constraints package the teacher imports before assuming cmp.Ordered is
// universally available downstream).
func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// LabelSummary renders constLabels as a deterministic "k=v,k=v" string for
// log lines and debug dumps, where Prometheus's own map iteration would be
// unstable across calls.
func LabelSummary(constLabels prometheus.Labels) string {
	keys := sortedKeys(constLabels)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += k + "=" + constLabels[k]
	}

	return out
}
