// Package memory implements store.LeadSource over a fixed, in-process lead
// collection. With no leads configured it serves the mock backend records.
package memory

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

var _ store.LeadSource = (*Source)(nil)

// Source serves a copy of its leads on every call.
type Source struct {
	mu    sync.RWMutex
	leads []model.Lead
}

// New returns a source serving leads. A nil slice selects MockLeads.
func New(leads []model.Lead) *Source {
	if leads == nil {
		leads = MockLeads()
	}
	return &Source{leads: model.CloneLeads(leads)}
}

// ListLeads implements store.LeadSource.
func (s *Source) ListLeads(ctx context.Context) ([]model.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneLeads(s.leads), nil
}

// Replace swaps the served collection.
func (s *Source) Replace(leads []model.Lead) {
	s.mu.Lock()
	s.leads = model.CloneLeads(leads)
	s.mu.Unlock()
}

func (s *Source) Close() error { return nil }

// MockLeads returns the three sample leads the dashboard backend ships with.
func MockLeads() []model.Lead {
	return []model.Lead{
		{
			"id":                 1,
			"name":               "John Doe",
			"company":            "Acme Inc.",
			"score":              87,
			"summary":            "High potential",
			"market_signal":      "Positive news",
			"win_probability":    75,
			"estimated_revenue":  50000,
			"recommended_action": "Move to Contract Stage",
			"automation_status":  "Scheduled",
			"coaching_tip":       "Leverage urgency",
		},
		{
			"id":                 2,
			"name":               "Jane Smith",
			"company":            "Beta Corp.",
			"score":              92,
			"summary":            "Decision maker engaged",
			"market_signal":      "New funding",
			"win_probability":    82,
			"estimated_revenue":  120000,
			"recommended_action": "Send Proposal",
			"automation_status":  "Completed",
			"coaching_tip":       "Highlight ROI",
		},
		{
			"id":                 3,
			"name":               "Alice Johnson",
			"company":            "Gamma LLC",
			"score":              68,
			"summary":            "Needs follow-up",
			"market_signal":      "Neutral",
			"win_probability":    55,
			"estimated_revenue":  30000,
			"recommended_action": "Schedule Call",
			"automation_status":  "Pending",
			"coaching_tip":       "Personalize outreach",
		},
	}
}
