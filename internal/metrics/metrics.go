package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_upstream_requests_total",
			Help: "Upstream API calls by operation and outcome class",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_sessions_expired_total",
			Help: "Session-expired events published",
		},
	)

	StaleSearchResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_stale_search_responses_total",
			Help: "Vendor search responses discarded because a newer search was issued",
		},
	)

	ReviewDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_review_decisions_total",
			Help: "Review decisions by action and result",
		},
		[]string{"action", "result"},
	)

	ConsoleSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_sessions_active",
			Help: "Console sessions currently held in memory",
		},
	)
)

// Outcome buckets an HTTP status for the outcome label. 0 means no response.
func Outcome(status int) string {
	switch {
	case status == 0:
		return "network_error"
	case status < 300:
		return "success"
	case status == 401:
		return "unauthorized"
	case status < 500:
		return "client_error"
	default:
		return "server_error"
	}
}
