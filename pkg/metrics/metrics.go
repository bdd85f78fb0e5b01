// Package metrics provides Prometheus metrics for pipes.
//
// # Overview
//
// Three groups of collectors are registered on the default Prometheus
// registry at package load:
//   - adapter registry activity (registrations, lookups that missed)
//   - pipeline membership changes (pipes added, removed, failed adds)
//   - pipe I/O performed by adapters (requests, latency)
//
// # Basic Usage
//
//	metrics.PipesAdded.WithLabelValues("rest").Inc()
//
//	timer := metrics.NewTimer("read")
//	records, err := p.read(ctx, opts)
//	metrics.ObservePipeRequest("memory", "tags", timer.Name(), timer.Stop(), err)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pipes"

var (
	// AdaptersRegistered counts adapter registrations by type. A value above
	// one for a type means the factory was overwritten.
	AdaptersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "adapters_registered_total",
			Help:      "Total number of adapter registrations",
		},
		[]string{"type"},
	)

	// AdapterLookupMisses counts lookups of unregistered adapter types
	AdapterLookupMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "lookup_misses_total",
			Help:      "Total number of lookups for unregistered adapter types",
		},
		[]string{"type"},
	)

	// PipesAdded counts pipes stored in any pipeline, by adapter type
	PipesAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pipes_added_total",
			Help:      "Total number of pipes added to pipelines",
		},
		[]string{"type"},
	)

	// PipesRemoved counts pipes deleted from any pipeline
	PipesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pipes_removed_total",
			Help:      "Total number of pipes removed from pipelines",
		},
	)

	// AddErrors counts pipes that could not be added.
	// Labels: reason (validation, not_found, config)
	AddErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "add_errors_total",
			Help:      "Total number of failed pipe additions",
		},
		[]string{"reason"},
	)

	// PipeRequests counts data operations performed by pipes.
	// Labels: type (adapter), pipe, operation (read/save/remove), status
	PipeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipe",
			Name:      "requests_total",
			Help:      "Total number of pipe operations",
		},
		[]string{"type", "pipe", "operation", "status"},
	)

	// PipeLatency tracks the duration of pipe operations in seconds
	PipeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipe",
			Name:      "operation_duration_seconds",
			Help:      "Duration of pipe operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"type", "pipe", "operation"},
	)
)

// ObservePipeRequest records one pipe operation
func ObservePipeRequest(adapterType, pipeName, operation string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	PipeRequests.WithLabelValues(adapterType, pipeName, operation, status).Inc()
	PipeLatency.WithLabelValues(adapterType, pipeName, operation).Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed time since the timer was created
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}
