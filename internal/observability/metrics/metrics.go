package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocdesk_http_requests_total",
		Help: "Total number of HTTP requests served by the dev API",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocdesk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests served by the dev API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	gatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocdesk_gateway_calls_total",
		Help: "Remote API calls issued by the gateway client, by outcome",
	}, []string{"kind", "action", "outcome"})

	gatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocdesk_gateway_call_duration_seconds",
		Help:    "Duration of remote API calls issued by the gateway client",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "action"})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "allocdesk_gateway_breaker_state",
		Help: "Gateway circuit breaker state (0 closed, 1 open, 2 half-open)",
	})

	workflowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocdesk_workflow_outcomes_total",
		Help: "Workflow steps by workflow name and outcome",
	}, []string{"workflow", "outcome"})

	staleLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocdesk_typeahead_stale_responses_total",
		Help: "Typeahead responses discarded because a newer lookup was issued",
	})

	exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocdesk_exports_total",
		Help: "Spreadsheet exports by kind and result",
	}, []string{"kind", "result"})

	expiredAllocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocdesk_allocations_expired_total",
		Help: "Allocations deactivated by the expiry worker after their end date",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveGatewayCall records one remote call and its outcome label.
func ObserveGatewayCall(kind, action, outcome string, duration time.Duration) {
	gatewayCalls.WithLabelValues(kind, action, outcome).Inc()
	gatewayDuration.WithLabelValues(kind, action).Observe(duration.Seconds())
}

// SetBreakerState publishes the numeric breaker state.
func SetBreakerState(state int) {
	breakerState.Set(float64(state))
}

// ObserveWorkflow counts a workflow step outcome, e.g. ("allocation_delete", "not_found").
func ObserveWorkflow(workflow, outcome string) {
	workflowOutcomes.WithLabelValues(workflow, outcome).Inc()
}

// ObserveStaleLookup counts a discarded out-of-order typeahead response.
func ObserveStaleLookup() {
	staleLookups.Inc()
}

// ObserveExport counts a spreadsheet export attempt.
func ObserveExport(kind, result string) {
	exports.WithLabelValues(kind, result).Inc()
}

// ObserveExpired counts allocations the expiry worker deactivated.
func ObserveExpired(n int) {
	expiredAllocations.Add(float64(n))
}
