package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// testHandler captures the incoming request and returns a canned response.
type testHandler struct {
	method      string
	path        string
	body        string
	contentType string
	auth        string

	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.contentType = r.Header.Get("Content-Type")
	h.auth = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

func newTestClient(t *testing.T, h http.Handler, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", token)
}

func TestHTTPClient_GetLeads(t *testing.T) {
	h := &testHandler{responseBody: `[{"id":1,"name":"John Doe","score":87},{"id":"L-2","name":"Jane"}]`}
	c := newTestClient(t, h, "")

	leads, err := c.GetLeads(context.Background())
	if err != nil {
		t.Fatalf("GetLeads() error = %v", err)
	}
	if h.method != http.MethodGet || h.path != "/get_leads" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if len(leads) != 2 {
		t.Fatalf("len = %d", len(leads))
	}
	if id, _ := leads[0].ID(); id != "1" {
		t.Errorf("id = %q, want 1", id)
	}
	if _, ok := leads[0]["score"].(json.Number); !ok {
		t.Errorf("score decoded as %T, want json.Number", leads[0]["score"])
	}
}

func TestHTTPClient_Filter(t *testing.T) {
	h := &testHandler{responseBody: `{
		"leads":[{"id":1}],
		"rows":[{"lead":{"id":1},"tier":"HIGH","highlight":true}],
		"shown":1,"total":3,
		"summary":"Showing 1 out of 3 leads",
		"actions":["Call"],
		"filters":{"score_range":{"min":50,"max":100},"win_probability_range":{"min":0,"max":100},"market_signal_only":false,"recommended_actions":[]}
	}`}
	c := newTestClient(t, h, "tok")

	state := model.DefaultFilterState()
	state.ScoreRange = model.Range{Min: 50, Max: 100}
	v, err := c.Filter(context.Background(), &FilterRequest{Filters: &state})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if h.path != "/v1/filter" || h.contentType != "application/json" || h.auth != "Bearer tok" {
		t.Errorf("request path=%q ct=%q auth=%q", h.path, h.contentType, h.auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if body["leads"] != nil {
		t.Errorf("nil leads should be sent as null, got %v", body["leads"])
	}

	if v.Shown != 1 || v.Total != 3 || v.Summary != "Showing 1 out of 3 leads" {
		t.Errorf("view = %+v", v)
	}
	if len(v.Rows) != 1 || v.Rows[0].Tier != model.TierHigh || !v.Rows[0].Highlight {
		t.Errorf("rows = %+v", v.Rows)
	}
	if v.Filters.ScoreRange.Min != 50 {
		t.Errorf("filters = %+v", v.Filters)
	}
}

func TestHTTPClient_BuildGraph(t *testing.T) {
	h := &testHandler{responseBody: `{"nodes":[{"id":"1","label":"A","color_tier":"LOW","color":"#2ecc71","size":10,"tooltip":"A"}],"edges":[["1","1"]],"stats":{"node_count":1,"edge_count":1,"self_loops":1}}`}
	c := newTestClient(t, h, "")

	g, err := c.BuildGraph(context.Background(), &GraphRequest{Leads: []model.Lead{{"id": 1}}})
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if h.path != "/v1/graph" {
		t.Errorf("path = %q", h.path)
	}
	if len(g.Nodes) != 1 || !g.HasEdge("1", "1") || g.Stats.SelfLoops != 1 {
		t.Errorf("graph = %+v", g)
	}
}

func TestHTTPClient_RunPipeline(t *testing.T) {
	for _, tc := range []struct {
		op, path string
	}{
		{OpOptimize, "/optimize_pipeline"},
		{OpAutomate, "/automate_actions"},
		{OpCoach, "/generate_coaching"},
	} {
		t.Run(tc.op, func(t *testing.T) {
			h := &testHandler{responseBody: `[{"id":1,"coaching_tip":"Keep momentum high"}]`}
			c := newTestClient(t, h, "")

			out, err := c.RunPipeline(context.Background(), tc.op, nil)
			if err != nil {
				t.Fatalf("RunPipeline() error = %v", err)
			}
			if h.method != http.MethodPost || h.path != tc.path {
				t.Errorf("request = %s %s", h.method, h.path)
			}
			if h.body != "[]" {
				t.Errorf("nil leads should post an empty array, got %s", h.body)
			}
			if len(out) != 1 {
				t.Errorf("out = %v", out)
			}
		})
	}

	c := NewHTTPClient("http://unused", "")
	if _, err := c.RunPipeline(context.Background(), "explode", nil); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestHTTPClient_MapRelationships(t *testing.T) {
	h := &testHandler{responseBody: `{"1":{"connections":[2]},"2":{"connections":["1"]}}`}
	c := newTestClient(t, h, "")

	rels, err := c.MapRelationships(context.Background(), []model.Lead{{"id": 1}, {"id": 2}})
	if err != nil {
		t.Fatalf("MapRelationships() error = %v", err)
	}
	if h.path != "/map_relationships" {
		t.Errorf("path = %q", h.path)
	}
	if len(rels) != 2 || rels["1"].Connections[0] != "2" {
		t.Errorf("rels = %v", rels)
	}
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok","sessions":0}`}
	c := newTestClient(t, h, "")

	status, err := c.Health(context.Background())
	if err != nil || status != "ok" {
		t.Fatalf("Health() = %q, %v", status, err)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	for _, tc := range []struct {
		name, body string
		status     int
		wantMsg    string
	}{
		{"JSONError", `{"error":"session not found"}`, http.StatusNotFound, "session not found"},
		{"PlainText", "upstream exploded\n", http.StatusBadGateway, "upstream exploded"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := &testHandler{statusCode: tc.status, responseBody: tc.body}
			c := newTestClient(t, h, "")

			_, err := c.GetLeads(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tc.status || apiErr.Message != tc.wantMsg {
				t.Errorf("err = %+v", apiErr)
			}
		})
	}
}

func TestHTTPClient_StreamEvents(t *testing.T) {
	var gotLastID, gotTopics string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLastID = r.Header.Get("Last-Event-ID")
		gotTopics = r.URL.Query().Get("topics")
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ":keepalive\n\n")
		fmt.Fprint(w, "id:4\nevent:leads.session.started\ndata:{\"session_id\":\"ses-1\"}\n\n")
		fmt.Fprint(w, "id:5\nevent:leads.graph.built\ndata:{\"stats\":{}}\n\n")
	}))
	t.Cleanup(srv.Close)
	c := NewHTTPClient(srv.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got []StreamEvent
	err := c.StreamEvents(ctx, []string{"leads.session.*", "leads.graph.built"}, 3, func(e StreamEvent) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamEvents() error = %v", err)
	}
	if gotLastID != "3" || gotTopics != "leads.session.*,leads.graph.built" {
		t.Errorf("request last-id=%q topics=%q", gotLastID, gotTopics)
	}
	if len(got) != 2 || got[0].ID != 4 || got[0].Topic != "leads.session.started" || string(got[1].Data) != `{"stats":{}}` {
		t.Fatalf("events = %+v", got)
	}
}

func TestHTTPClient_StreamEventsStopsOnCallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "id:1\nevent:a.b\ndata:{}\n\nid:2\nevent:a.c\ndata:{}\n\n")
	}))
	t.Cleanup(srv.Close)

	stop := errors.New("stop")
	calls := 0
	err := NewHTTPClient(srv.URL, "").StreamEvents(context.Background(), nil, 0, func(StreamEvent) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}
