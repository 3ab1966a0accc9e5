// Package server exposes the lead filter and graph engine over HTTP/JSON
// and gRPC. Both transports share the operations defined here; per-user
// state lives in a session.Registry.
package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/events"
	"github.com/alfredjeanlab/leadcommander/internal/graph"
	"github.com/alfredjeanlab/leadcommander/internal/metrics"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/relations"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/store"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

// LeadServer serves lead views, relationship graphs and the pipeline stubs.
type LeadServer struct {
	source    store.LeadSource
	publisher events.Publisher
	sseHub    *sseHub

	Sessions *session.Registry
	Inferer  relations.Inferer
	Builder  *graph.Builder
	Metrics  *metrics.Registry
}

// NewLeadServer returns a LeadServer reading leads from src and emitting
// events to p. Inference defaults to relations.SharedAttribute and graphs
// use the default palette; both fields may be replaced before serving.
func NewLeadServer(src store.LeadSource, p events.Publisher) *LeadServer {
	return &LeadServer{
		source:    src,
		publisher: p,
		sseHub:    newSSEHub(),
		Sessions:  session.New(),
		Inferer:   relations.SharedAttribute{},
		Builder:   graph.NewBuilder(style.DefaultPalette),
		Metrics:   metrics.NewRegistry(),
	}
}

// StartReaper ends sessions idle for longer than idle.
func (s *LeadServer) StartReaper(idle time.Duration) {
	s.Sessions.StartReaper(&session.ReaperConfig{
		IdleTimeout: idle,
		OnEnd: func(id, reason string) {
			s.sessionEnded(context.Background(), id, reason)
		},
	})
}

// Close stops background work.
func (s *LeadServer) Close() {
	s.Sessions.Stop()
}

// publish emits an event on the bus and to SSE clients. Both are
// best-effort; failures are logged but do not fail the caller.
func (s *LeadServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

// sourceError wraps a failure of the configured lead source.
// Transport layers map this to 502 / Unavailable.
type sourceError struct{ err error }

func (e *sourceError) Error() string { return "lead source: " + e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// fetchLeads loads the full collection from the source.
func (s *LeadServer) fetchLeads(ctx context.Context) ([]model.Lead, error) {
	leads, err := s.source.ListLeads(ctx)
	if err != nil {
		return nil, &sourceError{err: err}
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return leads, nil
}

// queryLeads narrows the source listing when it supports queries and falls
// back to the full collection otherwise.
func (s *LeadServer) queryLeads(ctx context.Context, q store.Query) ([]model.Lead, int, error) {
	if qr, ok := s.source.(store.Querier); ok {
		leads, total, err := qr.QueryLeads(ctx, q)
		if err != nil {
			return nil, 0, &sourceError{err: err}
		}
		return leads, total, nil
	}
	leads, err := s.fetchLeads(ctx)
	if err != nil {
		return nil, 0, err
	}
	return leads, len(leads), nil
}

// filterLeads runs the filter pipeline and records its outcome.
func (s *LeadServer) filterLeads(leads []model.Lead, state model.FilterState) (*session.View, error) {
	v, err := session.BuildView(leads, state)
	if err != nil {
		s.Metrics.RecordFilter(0, len(leads), err)
		return nil, err
	}
	s.Metrics.RecordFilter(v.Shown, v.Total, nil)
	return v, nil
}

// buildGraph builds the relationship graph of leads. When rels is nil the
// relationships are inferred.
func (s *LeadServer) buildGraph(ctx context.Context, sessionID string, leads []model.Lead, rels model.RelationshipMap) (*model.Graph, error) {
	start := time.Now()
	if rels == nil {
		var err error
		rels, err = s.Inferer.Infer(ctx, leads)
		if err != nil {
			return nil, fmt.Errorf("inferring relationships: %w", err)
		}
	}
	g, err := s.Builder.Build(leads, rels)
	if err != nil {
		return nil, err
	}
	s.graphBuilt(ctx, sessionID, g, start)
	return g, nil
}

// sessionGraph builds the graph of a session's active collection.
func (s *LeadServer) sessionGraph(ctx context.Context, sess *session.Session) (*model.Graph, error) {
	start := time.Now()
	g, err := sess.Graph(ctx, s.Inferer, s.Builder)
	if err != nil {
		return nil, err
	}
	s.graphBuilt(ctx, sess.ID, g, start)
	return g, nil
}

func (s *LeadServer) graphBuilt(ctx context.Context, sessionID string, g *model.Graph, start time.Time) {
	s.Metrics.RecordGraph(g.Stats, time.Since(start))
	s.publish(ctx, events.TopicGraphBuilt, events.GraphBuilt{SessionID: sessionID, Stats: g.Stats})
}

// --- sessions ---

func (s *LeadServer) createSession(ctx context.Context) (*session.Session, error) {
	sess, err := s.Sessions.Create()
	if err != nil {
		return nil, err
	}
	s.Metrics.SetSessions(s.Sessions.Len())
	s.publish(ctx, events.TopicSessionStarted, events.SessionStarted{SessionID: sess.ID, StartedAt: sess.CreatedAt})
	return sess, nil
}

func (s *LeadServer) endSession(ctx context.Context, id string) error {
	if err := s.Sessions.End(id); err != nil {
		return err
	}
	s.sessionEnded(ctx, id, session.ReasonClosed)
	return nil
}

func (s *LeadServer) sessionEnded(ctx context.Context, id, reason string) {
	s.Metrics.RecordSessionEnd(reason)
	s.Metrics.SetSessions(s.Sessions.Len())
	s.publish(ctx, events.TopicSessionEnded, events.SessionEnded{SessionID: id, Reason: reason})
}

// replaceLeads swaps a session's collection and announces it.
func (s *LeadServer) replaceLeads(ctx context.Context, sess *session.Session, leads []model.Lead, source string) {
	sess.ReplaceLeads(leads, source)
	n := len(leads)
	if leads == nil {
		source = "clear"
	}
	s.Metrics.RecordLeadsLoaded(source, n)
	s.publish(ctx, events.TopicCollectionReplaced, events.CollectionReplaced{SessionID: sess.ID, Source: source, Count: n})
}

func (s *LeadServer) updateFilters(ctx context.Context, sess *session.Session, patch model.FilterPatch) (model.FilterState, error) {
	if err := validate.Struct(patch); err != nil {
		return model.FilterState{}, inputError(formatValidationError(err))
	}
	state := sess.Filters.Set(patch)
	s.publish(ctx, events.TopicFiltersUpdated, events.FiltersUpdated{SessionID: sess.ID, Filters: state})
	return state, nil
}

func (s *LeadServer) resetFilters(ctx context.Context, sess *session.Session) model.FilterState {
	state := sess.Filters.Reset()
	s.publish(ctx, events.TopicFiltersReset, events.FiltersReset{SessionID: sess.ID})
	return state
}

// --- pipeline stubs ---

// Pipeline operations. Each is a pass-through: the scoring backend they
// stand in for is not part of this service.
const (
	OpOptimize = "optimize"
	OpAutomate = "automate"
	OpCoach    = "coach"
)

// CoachingTip is the tip the coaching stub assigns to every lead.
const CoachingTip = "Keep momentum high"

var pipelineMessages = map[string]string{
	OpOptimize: "Pipeline optimized successfully",
	OpAutomate: "Automation completed successfully",
	OpCoach:    "Coaching tips generated successfully",
}

var pipelineTopics = map[string]string{
	OpOptimize: events.TopicPipelineOptimized,
	OpAutomate: events.TopicPipelineAutomated,
	OpCoach:    events.TopicPipelineCoached,
}

// runPipeline returns the collection an operation hands back for leads.
// Optimize and automate echo copies of their input; coach also stamps
// CoachingTip on every copy.
func runPipeline(op string, leads []model.Lead) []model.Lead {
	out := model.CloneLeads(leads)
	if op == OpCoach {
		for _, l := range out {
			l[model.FieldCoachingTip] = CoachingTip
		}
	}
	return out
}

// pipelineResult is returned by the stub endpoints.
type pipelineResult struct {
	Message string       `json:"message"`
	Count   int          `json:"count"`
	Leads   []model.Lead `json:"leads,omitempty"`
}

func (s *LeadServer) runSessionPipeline(ctx context.Context, sess *session.Session, op string) *pipelineResult {
	out := runPipeline(op, sess.Leads())
	s.replaceLeads(ctx, sess, out, session.SourcePipeline)
	s.publish(ctx, pipelineTopics[op], events.PipelineRun{
		SessionID: sess.ID,
		Operation: op,
		Count:     len(out),
		Message:   pipelineMessages[op],
	})
	return &pipelineResult{Message: pipelineMessages[op], Count: len(out)}
}

// --- helpers ---

// decodeLeadArray parses a JSON body that may be a lead array. ok is false
// when the body is empty or holds some other JSON value.
func decodeLeadArray(data []byte) (leads []model.Lead, ok bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	var raw any
	if err := decodeJSON(bytes.NewReader(data), &raw); err != nil {
		return nil, false, inputError("invalid JSON body")
	}
	arr, isArr := raw.([]any)
	if !isArr {
		return nil, false, nil
	}
	leads = make([]model.Lead, len(arr))
	for i, v := range arr {
		m, isObj := v.(map[string]any)
		if !isObj {
			return nil, false, inputError(fmt.Sprintf("element %d is not a lead object", i))
		}
		leads[i] = model.Lead(m)
	}
	return leads, true, nil
}
