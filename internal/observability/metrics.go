package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Metrics holds the collectors registered on the process registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UpstreamRequestsTotal *prometheus.CounterVec
	CacheLookupsTotal     *prometheus.CounterVec
	QuotesTotal           *prometheus.CounterVec
	DraftsPublishedTotal  prometheus.Counter
}

// NewMetrics registers the storefront collectors on a fresh registry. Go
// runtime, process and GORM pool metrics stay on the default registry; see
// Gatherer.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distribution",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		UpstreamRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Requests sent to the hosting backend",
			},
			[]string{"operation", "outcome"},
		),
		CacheLookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Catalog cache lookups",
			},
			[]string{"key", "result"},
		),
		QuotesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Cycle quotes computed",
			},
			[]string{"cycle", "table"},
		),
		DraftsPublishedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_drafts_published_total",
				Help:      "Plan drafts published to the catalog",
			},
		),
	}
}

// Gatherer merges the storefront registry with the default one.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return prometheus.Gatherers{m.Registry, prometheus.DefaultGatherer}
}
