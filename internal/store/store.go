// Package store defines where lead collections come from.
//
// Sources are read-only: the service fetches leads, it never writes them.
// Implementations live in sub-packages (memory, postgres) and in
// internal/ingest (file and S3 uploads).
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// ErrUnavailable is returned by sources that cannot currently serve leads,
// e.g. when the backing service is unreachable.
var ErrUnavailable = errors.New("lead source unavailable")

// LeadSource supplies a complete lead collection.
type LeadSource interface {
	// ListLeads returns every lead, in source order.
	ListLeads(ctx context.Context) ([]model.Lead, error)

	// Close releases any held resources.
	Close() error
}

// Query narrows a catalog listing. Zero values mean "no restriction".
type Query struct {
	Company string // exact match
	Search  string // case-insensitive substring of name, company or email
	Sort    string // column, "-" prefix for descending
	Limit   int
	Offset  int
}

// Querier is implemented by sources that can narrow results before they
// reach the filter pipeline. The second result is the total number of
// matches ignoring Limit and Offset.
type Querier interface {
	QueryLeads(ctx context.Context, q Query) ([]model.Lead, int, error)
}
