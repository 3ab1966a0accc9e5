package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/filter"
	"github.com/alfredjeanlab/leadcommander/internal/graph"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/relations"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

// Collection sources recorded on ReplaceLeads.
const (
	SourceNone     = ""
	SourceFetch    = "fetch"
	SourceUpload   = "upload"
	SourcePipeline = "pipeline"
)

// Session is one dashboard user's state: a filter store and the active lead
// collection. The collection is only ever replaced as a whole.
type Session struct {
	ID        string
	CreatedAt time.Time
	Filters   *filter.Store

	mu       sync.Mutex
	leads    []model.Lead
	source   string
	lastSeen time.Time
}

// Info is a point-in-time summary of a session.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	IdleSecs  float64   `json:"idle_secs"`
	Source    string    `json:"source,omitempty"`
	Leads     int       `json:"leads"`
	Filtered  bool      `json:"filtered"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		Filters:   filter.NewStore(),
		leads:     []model.Lead{},
		lastSeen:  now,
	}
}

// Leads returns the active collection. The slice is a copy; the records
// are shared and must not be modified.
func (s *Session) Leads() []model.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Source reports where the active collection came from.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// ReplaceLeads swaps the active collection. A nil slice clears it.
func (s *Session) ReplaceLeads(leads []model.Lead, source string) {
	if leads == nil {
		leads = []model.Lead{}
		source = SourceNone
	}
	s.mu.Lock()
	s.leads = leads
	s.source = source
	s.mu.Unlock()
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	filtered := !s.Filters.Get().IsDefault()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		LastSeen:  s.lastSeen,
		IdleSecs:  time.Since(s.lastSeen).Seconds(),
		Source:    s.source,
		Leads:     len(s.leads),
		Filtered:  filtered,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// View applies the session's filters to its collection.
func (s *Session) View() (*View, error) {
	return BuildView(s.Leads(), s.Filters.Get())
}

// Graph infers relationships over the active collection and builds the
// graph. Filters do not apply to the graph.
func (s *Session) Graph(ctx context.Context, inf relations.Inferer, b *graph.Builder) (*model.Graph, error) {
	leads := s.Leads()
	rels, err := inf.Infer(ctx, leads)
	if err != nil {
		return nil, fmt.Errorf("inferring relationships: %w", err)
	}
	return b.Build(leads, rels)
}

// Row is one table row: the lead and its decoration.
type Row struct {
	Lead model.Lead `json:"lead"`
	style.RowStyle
}

// View is a filtered, decorated table of leads.
type View struct {
	Leads   []model.Lead      `json:"leads"`
	Rows    []Row             `json:"rows"`
	Shown   int               `json:"shown"`
	Total   int               `json:"total"`
	Summary string            `json:"summary"`
	Actions []string          `json:"actions"`
	Filters model.FilterState `json:"filters"`
}

// BuildView filters leads by state and decorates every kept row. Action
// choices are derived from the unfiltered collection.
func BuildView(leads []model.Lead, state model.FilterState) (*View, error) {
	kept, err := filter.Apply(leads, state)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(kept))
	for i, l := range kept {
		rs, err := style.Decorate(l)
		if err != nil {
			return nil, fmt.Errorf("decorating row %d: %w", i, err)
		}
		rows[i] = Row{Lead: l, RowStyle: rs}
	}
	return &View{
		Leads:   kept,
		Rows:    rows,
		Shown:   len(kept),
		Total:   len(leads),
		Summary: filter.Summary(len(kept), len(leads)),
		Actions: filter.ActionChoices(leads),
		Filters: state.Normalize(),
	}, nil
}
