// Package metrics holds the Prometheus collectors of the API server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scuttlebutt_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scuttlebutt_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Membership graph metrics
	CascadeSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scuttlebutt_cascade_steps_total",
			Help: "Store writes performed by cascading operations",
		},
		[]string{"operation"},
	)

	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scuttlebutt_store_errors_total",
			Help: "Store failures surfaced as internal errors, by operation",
		},
		[]string{"operation"},
	)

	IDsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scuttlebutt_ids_issued_total",
			Help: "Total number of entity ids allocated",
		},
	)

	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scuttlebutt_tokens_issued_total",
			Help: "Total number of bearer tokens issued",
		},
	)
)

func init() {
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(CascadeSteps)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(IDsIssued)
	prometheus.MustRegister(TokensIssued)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the time elapsed since it was created.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed seconds on o.
func (t *Timer) ObserveDuration(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}
