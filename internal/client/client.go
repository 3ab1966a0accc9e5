// Package client provides a transport-agnostic interface to the lead
// server, with HTTP/JSON and gRPC implementations.
package client

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// LeadClient is what the lc commands use to talk to a server.
type LeadClient interface {
	// GetLeads returns the server's configured lead collection.
	GetLeads(ctx context.Context) ([]model.Lead, error)

	// Filter runs the filter pipeline on the server. Nil leads select the
	// server's collection; nil filters select the defaults.
	Filter(ctx context.Context, req *FilterRequest) (*session.View, error)

	// BuildGraph builds the relationship graph. Relationships are inferred
	// server-side when req.Relationships is nil.
	BuildGraph(ctx context.Context, req *GraphRequest) (*model.Graph, error)

	// RunPipeline calls one of the optimize, automate or coach stubs.
	RunPipeline(ctx context.Context, op string, leads []model.Lead) ([]model.Lead, error)

	Health(ctx context.Context) (string, error)

	Close() error
}

// ErrUnsupported is returned for operations a transport does not offer.
var ErrUnsupported = errors.New("operation not supported by this transport")

// FilterRequest is the body of a filter call.
type FilterRequest struct {
	Leads   []model.Lead       `json:"leads"`
	Filters *model.FilterState `json:"filters,omitempty"`
}

// GraphRequest is the body of a graph call.
type GraphRequest struct {
	Leads         []model.Lead          `json:"leads"`
	Relationships model.RelationshipMap `json:"relationships,omitempty"`
}

// Pipeline operations accepted by RunPipeline, named after their server
// routes.
const (
	OpOptimize = "optimize"
	OpAutomate = "automate"
	OpCoach    = "coach"
)

var pipelinePaths = map[string]string{
	OpOptimize: "/optimize_pipeline",
	OpAutomate: "/automate_actions",
	OpCoach:    "/generate_coaching",
}
