// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_actions_total",
			Help: "Total number of moderation actions by outcome",
		},
		[]string{"action", "outcome"},
	)

	AdminActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "admin_action_duration_seconds",
			Help: "Duration of moderation actions in seconds",
		},
		[]string{"action"},
	)

	NotificationsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_written_total",
			Help: "Total number of notification records written to the store",
		},
		[]string{"type", "outcome"},
	)

	StoreRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_requests_total",
			Help: "Total number of document store requests",
		},
		[]string{"method", "outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by the console",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// Outcome labels shared by the counters above.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeSkipped   = "skipped"
	OutcomeDuplicate = "duplicate"
)
