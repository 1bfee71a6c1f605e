package metrics

import "time"

// Collector receives ledger telemetry. Implementations must be safe for
// concurrent use.
type Collector interface {
	// RecordOperation observes one ledger operation and its outcome class.
	RecordOperation(operation, outcome string, duration time.Duration)

	// RecordCircuitState reports a storage circuit breaker transition.
	RecordCircuitState(name string, state CircuitState)

	// RecordSummaryCache reports a summary cache lookup.
	RecordSummaryCache(hit bool)
}

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

func (NoOpCollector) RecordOperation(string, string, time.Duration) {}

func (NoOpCollector) RecordCircuitState(string, CircuitState) {}

func (NoOpCollector) RecordSummaryCache(bool) {}
