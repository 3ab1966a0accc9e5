package server

import (
	"net/http"
)

// handleGetLeadsLegacy handles GET /get_leads.
func (s *LeadServer) handleGetLeadsLegacy(w http.ResponseWriter, r *http.Request) {
	leads, err := s.fetchLeads(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// handlePipelineLegacy handles POST /optimize_pipeline, /automate_actions
// and /generate_coaching. A posted lead array is answered with the
// processed array; any other body gets the operation's message.
func (s *LeadServer) handlePipelineLegacy(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readBody(w, r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		leads, ok, err := decodeLeadArray(data)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]string{"message": pipelineMessages[op]})
			return
		}
		writeJSON(w, http.StatusOK, runPipeline(op, leads))
	}
}

// handleMapRelationships handles POST /map_relationships.
func (s *LeadServer) handleMapRelationships(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	leads, ok, err := decodeLeadArray(data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "body must be a JSON array of leads")
		return
	}
	rels, err := s.Inferer.Infer(r.Context(), leads)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}
