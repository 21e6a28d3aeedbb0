package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	newMetrics := func() (*PrometheusMetrics, *prometheus.Registry) {
		reg := prometheus.NewRegistry()
		return NewPrometheusMetrics(reg), reg
	}

	t.Run("run counter carries year and status", func(t *testing.T) {
		pm, reg := newMetrics()

		pm.RecordCounter("allocation_runs_total", 1, map[string]string{"year": "2025", "status": "ok"})
		pm.RecordCounter("allocation_runs_total", 1, map[string]string{"year": "2025", "status": "ok"})
		pm.RecordCounter("allocation_runs_total", 1, map[string]string{"year": "2025", "status": "error"})

		assert.Equal(t, 2.0, testutil.ToFloat64(pm.runCounter.WithLabelValues("2025", "ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(pm.runCounter.WithLabelValues("2025", "error")))

		families, err := reg.Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
	})

	t.Run("missing labels fall back to unknown", func(t *testing.T) {
		pm, _ := newMetrics()

		pm.RecordCounter("allocation_runs_total", 1, nil)

		assert.Equal(t, 1.0, testutil.ToFloat64(pm.runCounter.WithLabelValues("unknown", "unknown")))
	})

	t.Run("run latency lands in the histogram", func(t *testing.T) {
		pm, _ := newMetrics()

		pm.RecordLatency("compute_seat_allocation", 150*time.Millisecond, map[string]string{"year": "2025"})

		count := testutil.CollectAndCount(pm.runLatency, "allocation_run_duration_seconds")
		assert.Equal(t, 1, count)
	})

	t.Run("stage durations land in the stage histogram", func(t *testing.T) {
		pm, _ := newMetrics()

		pm.RecordHistogram("allocation_stage_duration_seconds", 0.02, map[string]string{"stage": "federal_apportionment"})
		pm.RecordHistogram("allocation_stage_duration_seconds", 0.01, map[string]string{"stage": "vote_aggregation"})

		count := testutil.CollectAndCount(pm.stageLatency, "allocation_stage_duration_seconds")
		assert.Equal(t, 2, count)
	})

	t.Run("seat gauge tracks the latest roster", func(t *testing.T) {
		pm, _ := newMetrics()

		pm.RecordGauge("allocation_seats", 630, map[string]string{"year": "2025", "seat_type": "total"})
		pm.RecordGauge("allocation_seats", 512, map[string]string{"year": "2025", "seat_type": "total"})

		assert.Equal(t, 512.0, testutil.ToFloat64(pm.seatGauges.WithLabelValues("2025", "total")))
	})

	t.Run("unrouted metrics count as events", func(t *testing.T) {
		pm, _ := newMetrics()

		pm.RecordCounter("something_else", 3, nil)
		pm.RecordGauge("another_thing", 1, nil)

		assert.Equal(t, 3.0, testutil.ToFloat64(pm.eventCounter.WithLabelValues("something_else")))
		assert.Equal(t, 1.0, testutil.ToFloat64(pm.eventCounter.WithLabelValues("another_thing")))
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(1, 2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Burst of two passes, the rest are rejected.
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}
