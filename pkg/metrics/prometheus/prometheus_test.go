package prometheus

import (
	"testing"
	"time"

	"finease/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ metrics.Collector = (*Collector)(nil)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector("finease", reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.RecordOperation("create", "ok", 10*time.Millisecond)
	c.RecordOperation("create", "ok", 20*time.Millisecond)
	c.RecordOperation("create", "validation", time.Millisecond)
	c.RecordCircuitState("postgres", metrics.CircuitOpen)
	c.RecordSummaryCache(true)
	c.RecordSummaryCache(false)
	c.RecordSummaryCache(false)

	if got := testutil.ToFloat64(c.operations.WithLabelValues("create", "ok")); got != 2 {
		t.Errorf("create/ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("create", "validation")); got != 1 {
		t.Errorf("create/validation = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.circuitState.WithLabelValues("postgres")); got != float64(metrics.CircuitOpen) {
		t.Errorf("circuit state = %v", got)
	}
	if got := testutil.ToFloat64(c.circuitOpens.WithLabelValues("postgres")); got != 1 {
		t.Errorf("circuit opens = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.summaryCacheHit.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector("finease", reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCollector("finease", reg); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
