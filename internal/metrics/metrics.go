package metrics

import (
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFilter records one pipeline run. A failed run only counts as an error.
func (r *Registry) RecordFilter(shown, total int, err error) {
	if err != nil {
		r.FilterAppliedTotal.WithLabelValues("error").Inc()
		return
	}
	r.FilterAppliedTotal.WithLabelValues("ok").Inc()
	if total > 0 {
		r.FilterKeptRatio.Observe(float64(shown) / float64(total))
	}
}

// RecordGraph records a completed graph build.
func (r *Registry) RecordGraph(stats model.GraphStats, duration time.Duration) {
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.Observe(float64(stats.NodeCount))
	r.GraphEdges.Observe(float64(stats.EdgeCount))
	r.GraphDanglingTotal.Add(float64(stats.DanglingConnections))
}

// SetSessions sets the live session gauge.
func (r *Registry) SetSessions(n int) {
	r.SessionsActive.Set(float64(n))
}

// RecordSessionEnd counts an ended session.
func (r *Registry) RecordSessionEnd(reason string) {
	r.SessionsEndedTotal.WithLabelValues(reason).Inc()
}

// RecordLeadsLoaded counts leads placed into a session.
func (r *Registry) RecordLeadsLoaded(source string, n int) {
	r.LeadsLoadedTotal.WithLabelValues(source).Add(float64(n))
}
