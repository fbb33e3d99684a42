// Package metrics holds the Prometheus collectors used across StockLens.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector. Create one per registry.
type Metrics struct {
	FetchTotal      *prometheus.CounterVec // labels: provider, result
	FetchDuration   prometheus.Histogram
	CacheRequests   *prometheus.CounterVec // labels: result
	ComputeDuration prometheus.Histogram
	BarsSaved       prometheus.Counter
	HTTPRequests    *prometheus.CounterVec // labels: route, code

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. A nil reg uses a fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_fetch_total",
			Help: "Market data fetch attempts by provider and result",
		}, []string{"provider", "result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_cache_requests_total",
			Help: "Analysis cache lookups by result (hit|miss|error)",
		}, []string{"result"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_indicator_compute_seconds",
			Help:    "Time spent computing one indicator report",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		BarsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_bars_saved_total",
			Help: "New price bars written to the database",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_http_requests_total",
			Help: "API requests by route and status code",
		}, []string{"route", "code"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.CacheRequests,
		m.ComputeDuration,
		m.BarsSaved,
		m.HTTPRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
