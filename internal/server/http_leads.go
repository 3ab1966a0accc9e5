package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

// handleListLeads handles GET /v1/leads. Query parameters narrow the
// listing when the source is a catalog; other sources return everything.
func (s *LeadServer) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := store.Query{
		Company: q.Get("company"),
		Search:  q.Get("search"),
		Sort:    q.Get("sort"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			query.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			query.Offset = n
		}
	}

	leads, total, err := s.queryLeads(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"total": total,
	})
}

// handleFilter handles POST /v1/filter: a stateless filter run over posted
// leads, or over the source when none are posted.
func (s *LeadServer) handleFilter(w http.ResponseWriter, r *http.Request) {
	var in filterRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v, err := s.runFilter(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// runFilter validates in and applies its filters.
func (s *LeadServer) runFilter(ctx context.Context, in filterRequest) (*session.View, error) {
	if err := validate.Struct(in); err != nil {
		return nil, inputError(formatValidationError(err))
	}
	leads := in.Leads
	if leads == nil {
		var err error
		if leads, err = s.fetchLeads(ctx); err != nil {
			return nil, err
		}
	}
	state := model.DefaultFilterState()
	if in.Filters != nil {
		state = in.Filters.Merge(state)
	}
	return s.filterLeads(leads, state)
}

// handleBuildGraph handles POST /v1/graph.
func (s *LeadServer) handleBuildGraph(w http.ResponseWriter, r *http.Request) {
	var in graphRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, formatValidationError(err))
		return
	}
	g, err := s.buildGraph(r.Context(), "", in.Leads, in.Relationships)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
