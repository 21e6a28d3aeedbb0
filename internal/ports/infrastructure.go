package ports

import (
	"time"
)

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like runs started, runs failed,
	// or integrity violations detected.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like seats assigned per type.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like stage durations.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// NoopMetrics is a MetricsCollector that discards every observation.
// It is the default when no collector is wired in.
type NoopMetrics struct{}

// RecordLatency implements MetricsCollector by discarding the observation.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector by discarding the observation.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector by discarding the observation.
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}

// RecordHistogram implements MetricsCollector by discarding the observation.
func (NoopMetrics) RecordHistogram(string, float64, map[string]string) {}
