package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts outbound GETs by upstream and outcome
	// (ok, http_error, network_error, rejected).
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeplan_upstream_requests_total",
			Help: "Outbound requests to catalog and news upstreams",
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animeplan_upstream_request_duration_seconds",
			Help:    "Duration of outbound upstream requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeplan_circuit_breaker_state",
			Help: "Upstream circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"upstream"},
	)

	SessionActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeplan_session_actions_total",
			Help: "Session actions by kind and outcome",
		},
		[]string{"action", "outcome"},
	)

	// ViewBranchFailures counts fan-out branches that degraded to an empty list.
	ViewBranchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeplan_view_branch_failures_total",
			Help: "Session view branches that failed during initialization",
		},
		[]string{"branch"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animeplan_sessions_active",
			Help: "Open sessions",
		},
	)

	DescriptionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animeplan_description_fallbacks_total",
			Help: "Descriptions replaced by the error placeholder",
		},
	)
)
