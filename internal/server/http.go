package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// maxBodyBytes caps request bodies, uploads included.
const maxBodyBytes = 32 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *LeadServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()

	// Legacy dashboard backend routes.
	mux.HandleFunc("GET /get_leads", s.handleGetLeadsLegacy)
	mux.HandleFunc("POST /optimize_pipeline", s.handlePipelineLegacy(OpOptimize))
	mux.HandleFunc("POST /automate_actions", s.handlePipelineLegacy(OpAutomate))
	mux.HandleFunc("POST /generate_coaching", s.handlePipelineLegacy(OpCoach))
	mux.HandleFunc("POST /map_relationships", s.handleMapRelationships)

	mux.HandleFunc("GET /v1/leads", s.handleListLeads)
	mux.HandleFunc("POST /v1/filter", s.handleFilter)
	mux.HandleFunc("POST /v1/graph", s.handleBuildGraph)

	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleEndSession)
	mux.HandleFunc("GET /v1/sessions/{id}/filters", s.handleGetFilters)
	mux.HandleFunc("PATCH /v1/sessions/{id}/filters", s.handlePatchFilters)
	mux.HandleFunc("POST /v1/sessions/{id}/filters/reset", s.handleResetFilters)
	mux.HandleFunc("GET /v1/sessions/{id}/leads", s.handleSessionView)
	mux.HandleFunc("PUT /v1/sessions/{id}/leads", s.handleUploadLeads)
	mux.HandleFunc("DELETE /v1/sessions/{id}/leads", s.handleClearLeads)
	mux.HandleFunc("POST /v1/sessions/{id}/leads/refresh", s.handleRefreshLeads)
	mux.HandleFunc("POST /v1/sessions/{id}/optimize", s.handleSessionPipeline(OpOptimize))
	mux.HandleFunc("POST /v1/sessions/{id}/automate", s.handleSessionPipeline(OpAutomate))
	mux.HandleFunc("POST /v1/sessions/{id}/coach", s.handleSessionPipeline(OpCoach))
	mux.HandleFunc("GET /v1/sessions/{id}/graph", s.handleSessionGraph)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())

	return requestIDMiddleware(s.instrument(AuthMiddleware(authToken, mux)))
}

// handleHealth handles GET /v1/health.
func (s *LeadServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Sessions.Len(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps an operation error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ie  inputError
		ire *model.InvalidRecordError
		ve  *model.ValidationError
		se  *sourceError
	)
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.As(err, &ire), errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &se):
		writeError(w, http.StatusBadGateway, se.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes a single JSON value keeping numbers as json.Number,
// so integer lead ids survive unchanged.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, inputError("request body too large")
		}
		return nil, inputError("failed to read request body")
	}
	return data, nil
}
