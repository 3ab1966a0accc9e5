// Package metrics exposes Prometheus instrumentation for the lead server.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Filter Metrics
	FilterAppliedTotal *prometheus.CounterVec
	FilterKeptRatio    prometheus.Histogram

	// Graph Metrics
	GraphBuildDuration prometheus.Histogram
	GraphNodes         prometheus.Histogram
	GraphEdges         prometheus.Histogram
	GraphDanglingTotal prometheus.Counter

	// Session Metrics
	SessionsActive     prometheus.Gauge
	SessionsEndedTotal *prometheus.CounterVec
	LeadsLoadedTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initFilterMetrics()
	r.initGraphMetrics()
	r.initSessionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
