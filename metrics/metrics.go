// Package metrics provides Prometheus instrumentation for the payoff service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for EvaluationsTotal.
const (
	OutcomeAutocalled = "autocalled"
	OutcomeMatured    = "matured"
	OutcomeKnockedIn  = "knocked_in"
	OutcomeError      = "error"
)

var (
	// EvaluationsTotal counts payoff evaluations by structure type and outcome.
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phoenix_evaluations_total",
		Help: "Total payoff evaluations",
	}, []string{"structure", "outcome"})

	// EvaluationSeconds tracks engine evaluation latency.
	EvaluationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoenix_evaluation_duration_seconds",
		Help:    "Payoff evaluation duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phoenix_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestSeconds tracks request duration by method and route.
	HTTPRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phoenix_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "route"})
)

// Outcome maps an evaluation to its counter label. Autocall wins over a
// knock-in because a called note never reaches the barrier check again.
func Outcome(autocalled, knockedIn bool) string {
	switch {
	case autocalled:
		return OutcomeAutocalled
	case knockedIn:
		return OutcomeKnockedIn
	default:
		return OutcomeMatured
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
