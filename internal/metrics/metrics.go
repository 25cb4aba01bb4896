// Package metrics defines the Prometheus collectors for the backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by method, route pattern, and
	// status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motorpool_http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route, and status.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "motorpool_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// JoinsTotal counts successful group joins.
	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motorpool_group_joins_total",
		Help: "Successful group joins.",
	})

	// VotesTotal counts accepted votes, including switches.
	VotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motorpool_offer_votes_total",
		Help: "Accepted offer votes, including vote switches.",
	})

	// PaymentsTotal counts recorded joining-fee payments.
	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motorpool_payments_total",
		Help: "Recorded joining-fee payments.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
