// Package middleware provides cross-cutting concerns for the
// seat-allocation service: Prometheus metrics and HTTP request limits.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-mandate/internal/ports"
)

// Compile-time interface check.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of allocation runs,
// stage latency, and seat totals.
type PrometheusMetrics struct {
	runCounter   *prometheus.CounterVec
	runLatency   *prometheus.HistogramVec
	stageLatency *prometheus.HistogramVec
	seatGauges   *prometheus.GaugeVec
	eventCounter *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the given registerer. Passing nil
// uses the global Prometheus registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		runCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_runs_total",
				Help: "Total number of seat-allocation runs, by election year and outcome.",
			},
			[]string{"year", "status"},
		),
		runLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allocation_run_duration_seconds",
				Help:    "End-to-end duration of seat-allocation runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"year"},
		),
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allocation_stage_duration_seconds",
				Help:    "Duration of individual pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		seatGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "allocation_seats",
				Help: "Seats in the most recently computed roster, by seat type.",
			},
			[]string{"year", "seat_type"},
		),
		eventCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_events_total",
				Help: "Miscellaneous allocation events, by metric name.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// run latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	year := labelOr(labels, "year", "unknown")
	switch operation {
	case "compute_seat_allocation":
		pm.runLatency.WithLabelValues(year).Observe(duration.Seconds())
	default:
		pm.eventCounter.WithLabelValues(operation).Inc()
	}
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "allocation_runs_total":
		pm.runCounter.WithLabelValues(
			labelOr(labels, "year", "unknown"),
			labelOr(labels, "status", "unknown"),
		).Add(value)
	default:
		pm.eventCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauges.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "allocation_seats":
		pm.seatGauges.WithLabelValues(
			labelOr(labels, "year", "unknown"),
			labelOr(labels, "seat_type", "total"),
		).Set(value)
	default:
		pm.eventCounter.WithLabelValues(metric).Inc()
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// stage durations.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "allocation_stage_duration_seconds":
		pm.stageLatency.WithLabelValues(labelOr(labels, "stage", "unknown")).Observe(value)
	default:
		pm.eventCounter.WithLabelValues(metric).Inc()
	}
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return fallback
}
