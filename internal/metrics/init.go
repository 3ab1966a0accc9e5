package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leads_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "leads_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initFilterMetrics() {
	r.FilterAppliedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_filter_applied_total",
			Help: "Total number of filter pipeline runs",
		},
		[]string{"status"},
	)

	r.FilterKeptRatio = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leads_filter_kept_ratio",
			Help:    "Fraction of leads kept by a filter run",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leads_graph_build_duration_seconds",
			Help:    "Relationship graph build latency in seconds, inference included",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leads_graph_nodes",
			Help:    "Number of nodes per built graph",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leads_graph_edges",
			Help:    "Number of edges per built graph",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	r.GraphDanglingTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "leads_graph_dangling_connections_total",
			Help: "Connections skipped because they referenced unknown leads",
		},
	)
}

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "leads_sessions_active",
			Help: "Current number of dashboard sessions",
		},
	)

	r.SessionsEndedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_sessions_ended_total",
			Help: "Total number of ended sessions by reason",
		},
		[]string{"reason"},
	)

	r.LeadsLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_loaded_total",
			Help: "Total number of leads loaded into sessions by source",
		},
		[]string{"source"},
	)
}
