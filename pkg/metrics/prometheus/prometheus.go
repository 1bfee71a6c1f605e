package prometheus

import (
	"time"

	"finease/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports ledger metrics to Prometheus.
type Collector struct {
	operations      *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	circuitState    *prometheus.GaugeVec
	circuitOpens    *prometheus.CounterVec
	summaryCacheHit *prometheus.CounterVec
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_operations_total",
				Help:      "Ledger operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_operation_duration_seconds",
				Help:      "Ledger operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_circuit_state",
				Help:      "Storage circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"breaker"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_circuit_opens_total",
				Help:      "Number of times the storage circuit breaker opened",
			},
			[]string{"breaker"},
		),
		summaryCacheHit: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_cache_lookups_total",
				Help:      "Summary cache lookups by result",
			},
			[]string{"result"},
		),
	}

	for _, col := range []prometheus.Collector{
		c.operations, c.latency, c.circuitState, c.circuitOpens, c.summaryCacheHit,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) RecordOperation(operation, outcome string, duration time.Duration) {
	c.operations.WithLabelValues(operation, outcome).Inc()
	c.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordCircuitState(name string, state metrics.CircuitState) {
	c.circuitState.WithLabelValues(name).Set(float64(state))
	if state == metrics.CircuitOpen {
		c.circuitOpens.WithLabelValues(name).Inc()
	}
}

func (c *Collector) RecordSummaryCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.summaryCacheHit.WithLabelValues(result).Inc()
}
