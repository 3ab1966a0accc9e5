package server

import (
	"bytes"
	"net/http"

	"github.com/alfredjeanlab/leadcommander/internal/ingest"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// lookupSession resolves the {id} path value, writing a 404 when it is
// unknown.
func (s *LeadServer) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return sess, true
}

// handleCreateSession handles POST /v1/sessions.
// With ?fetch=true the new session is loaded from the lead source.
func (s *LeadServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var leads []model.Lead
	if r.URL.Query().Get("fetch") == "true" {
		var err error
		if leads, err = s.fetchLeads(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	sess, err := s.createSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if leads != nil {
		s.replaceLeads(r.Context(), sess, leads, session.SourceFetch)
	}
	writeJSON(w, http.StatusCreated, sess.Info())
}

// handleListSessions handles GET /v1/sessions.
func (s *LeadServer) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.Sessions.List()})
}

// handleGetSession handles GET /v1/sessions/{id}.
func (s *LeadServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

// handleEndSession handles DELETE /v1/sessions/{id}.
func (s *LeadServer) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.endSession(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetFilters handles GET /v1/sessions/{id}/filters.
func (s *LeadServer) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Filters.Get())
}

// handlePatchFilters handles PATCH /v1/sessions/{id}/filters. Inverted or
// out-of-range bounds are normalized, not rejected.
func (s *LeadServer) handlePatchFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var patch model.FilterPatch
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	state, err := s.updateFilters(r.Context(), sess, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleResetFilters handles POST /v1/sessions/{id}/filters/reset.
func (s *LeadServer) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.resetFilters(r.Context(), sess))
}

// handleSessionView handles GET /v1/sessions/{id}/leads.
func (s *LeadServer) handleSessionView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	v, err := s.filterLeads(sess.Leads(), sess.Filters.Get())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleUploadLeads handles PUT /v1/sessions/{id}/leads. The body is a JSON
// array, JSONL, or CSV according to Content-Type. Leads with mistyped
// fields are rejected before they replace the collection.
func (s *LeadServer) handleUploadLeads(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	leads, err := ingest.Decode(bytes.NewReader(data), ingest.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.ValidateLeads(leads); err != nil {
		writeServiceError(w, err)
		return
	}
	s.replaceLeads(r.Context(), sess, leads, session.SourceUpload)
	writeJSON(w, http.StatusOK, sess.Info())
}

// handleClearLeads handles DELETE /v1/sessions/{id}/leads.
func (s *LeadServer) handleClearLeads(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.replaceLeads(r.Context(), sess, nil, session.SourceNone)
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshLeads handles POST /v1/sessions/{id}/leads/refresh.
func (s *LeadServer) handleRefreshLeads(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	leads, err := s.fetchLeads(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.replaceLeads(r.Context(), sess, leads, session.SourceFetch)
	writeJSON(w, http.StatusOK, sess.Info())
}

// handleSessionPipeline handles POST /v1/sessions/{id}/{optimize,automate,coach}.
// The stub's output replaces the session's collection.
func (s *LeadServer) handleSessionPipeline(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.runSessionPipeline(r.Context(), sess, op))
	}
}

// handleSessionGraph handles GET /v1/sessions/{id}/graph.
func (s *LeadServer) handleSessionGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	g, err := s.sessionGraph(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
