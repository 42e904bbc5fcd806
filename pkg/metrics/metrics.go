// Package metrics provides Prometheus metrics for the lesson player.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// backendRequestsTotal counts calls to the student backend.
	// Labels:
	//   - endpoint: logical endpoint name (e.g. "get_lesson", "list_progress")
	//   - status: HTTP status code, or "error" when no response came back
	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_backend_requests_total",
			Help: "Total number of requests sent to the student backend",
		},
		[]string{"endpoint", "status"},
	)

	// backendRequestDuration records backend latency per endpoint
	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "academy_backend_request_duration_seconds",
			Help:    "Duration of student backend requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// togglesTotal counts completion toggles.
	// Labels:
	//   - action: "complete" or "uncomplete"
	//   - result: "success", "failed", "noop" or "in_flight"
	togglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_completion_toggles_total",
			Help: "Total number of lesson completion toggles",
		},
		[]string{"action", "result"},
	)

	staleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "academy_stale_responses_total",
			Help: "Responses discarded because a newer load had been issued",
		},
	)

	degradedBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "academy_degraded_builds_total",
			Help: "Views built without progress records because the progress fetch failed",
		},
	)
)

func init() {
	prometheus.MustRegister(backendRequestsTotal)
	prometheus.MustRegister(backendRequestDuration)
	prometheus.MustRegister(togglesTotal)
	prometheus.MustRegister(staleResponsesTotal)
	prometheus.MustRegister(degradedBuildsTotal)
}

// RecordBackendRequest records one backend call and how long it took
func RecordBackendRequest(endpoint, status string, durationSeconds float64) {
	backendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	backendRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordToggle records the outcome of a completion toggle
func RecordToggle(action, result string) {
	togglesTotal.WithLabelValues(action, result).Inc()
}

// RecordStaleResponse counts a discarded out-of-date load
func RecordStaleResponse() {
	staleResponsesTotal.Inc()
}

// RecordDegradedBuild counts a view built without progress records
func RecordDegradedBuild() {
	degradedBuildsTotal.Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
