package poolmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	return m.GetGauge().GetValue()
}

func TestRecorderIncrementsLifecycleCounters(t *testing.T) {
	r := NewRecorder("taskpool", "test", nil)

	r.TaskAdmitted(true)
	r.TaskAdmitted(false)
	r.TaskPromoted()
	r.TaskStarted()
	r.TaskCompleted()
	r.TaskCancelled()

	if got := counterValue(t, r.Admitted.WithLabelValues("ready")); got != 1 {
		t.Errorf("expected 1 ready admission, got %v", got)
	}
	if got := counterValue(t, r.Admitted.WithLabelValues("pending")); got != 1 {
		t.Errorf("expected 1 pending admission, got %v", got)
	}
	if got := counterValue(t, r.Promoted); got != 1 {
		t.Errorf("expected 1 promotion, got %v", got)
	}
	if got := counterValue(t, r.Started); got != 1 {
		t.Errorf("expected 1 start, got %v", got)
	}
	if got := counterValue(t, r.Completed); got != 1 {
		t.Errorf("expected 1 completion, got %v", got)
	}
	if got := counterValue(t, r.Cancelled); got != 1 {
		t.Errorf("expected 1 cancellation, got %v", got)
	}
}

func TestObserveQueuedSetsGauge(t *testing.T) {
	r := NewRecorder("taskpool", "test", nil)
	r.ObserveQueued(7)

	if got := gaugeValue(t, r.GaugeQueued); got != 7 {
		t.Errorf("expected gauge 7, got %v", got)
	}
}

func TestLabelSummaryIsSortedAndDeterministic(t *testing.T) {
	labels := prometheus.Labels{"pool": "images", "env": "prod", "az": "us-east-1"}
	got := LabelSummary(labels)
	want := "az=us-east-1,env=prod,pool=images"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCollectorsReturnsEveryCollector(t *testing.T) {
	r := NewRecorder("taskpool", "test", nil)
	reg := prometheus.NewRegistry()
	for _, c := range r.Collectors() {
		if err := reg.Register(c); err != nil {
			t.Fatalf("failed to register collector: %v", err)
		}
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	if len(mfs) != len(r.Collectors()) {
		t.Errorf("expected %d metric families, got %d", len(r.Collectors()), len(mfs))
	}
}
