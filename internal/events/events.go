// Package events carries session and lead-collection notifications over
// NATS. Every topic lives under the "leads." prefix so consumers can
// subscribe with the "leads.>" wildcard.
package events

import (
	"context"
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// AllTopics matches every event published by the server.
const AllTopics = "leads.>"

// Event topic constants
const (
	TopicSessionStarted = "leads.session.started"
	TopicSessionEnded   = "leads.session.ended"

	TopicCollectionReplaced = "leads.collection.replaced"

	TopicFiltersUpdated = "leads.filters.updated"
	TopicFiltersReset   = "leads.filters.reset"

	TopicGraphBuilt = "leads.graph.built"

	// Pipeline stub calls.
	TopicPipelineOptimized = "leads.pipeline.optimized"
	TopicPipelineAutomated = "leads.pipeline.automated"
	TopicPipelineCoached   = "leads.pipeline.coached"
)

// Event types

type SessionStarted struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

type SessionEnded struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"` // "closed" or "idle"
}

type CollectionReplaced struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"` // "upload", "fetch", "pipeline", "clear"
	Count     int    `json:"count"`
}

type FiltersUpdated struct {
	SessionID string            `json:"session_id"`
	Filters   model.FilterState `json:"filters"`
}

type FiltersReset struct {
	SessionID string `json:"session_id"`
}

type GraphBuilt struct {
	SessionID string           `json:"session_id,omitempty"`
	Stats     model.GraphStats `json:"stats"`
}

type PipelineRun struct {
	SessionID string `json:"session_id"`
	Operation string `json:"operation"`
	Count     int    `json:"count"`
	Message   string `json:"message,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
