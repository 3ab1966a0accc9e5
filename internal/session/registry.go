// Package session keeps the per-user dashboard state: a filter store and an
// active lead collection for each session id.
//
// The Registry holds sessions in memory only. A background reaper ends
// sessions that have been idle longer than a configurable threshold.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/leadcommander/internal/idgen"
)

// ErrNotFound is returned for unknown or ended session ids.
var ErrNotFound = errors.New("session not found")

// End reasons passed to ReaperConfig.OnEnd and published with
// leads.session.ended.
const (
	ReasonClosed = "closed"
	ReasonIdle   = "idle"
)

// ReaperConfig configures the idle-session reaper.
type ReaperConfig struct {
	// IdleTimeout is how long a session may go untouched before it is ended.
	// Default: 30 minutes.
	IdleTimeout time.Duration

	// SweepInterval is how often the reaper scans for idle sessions.
	// Default: 60 seconds.
	SweepInterval time.Duration

	// OnEnd is called for each reaped session, outside the lock.
	OnEnd func(id, reason string)
}

// Registry maps session ids to sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time

	reaperStop chan struct{}
	reaperDone chan struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session with default filters and no leads.
func (r *Registry) Create() (*Session, error) {
	id, err := idgen.Session()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	s := newSession(id, r.now())

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session and marks it active.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.touch(r.now())
	return s, nil
}

// End removes a session.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// List returns every live session, most recently active first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	infos := make([]Info, len(all))
	for i, s := range all {
		infos[i] = s.Info()
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].LastSeen.Equal(infos[j].LastSeen) {
			return infos[i].LastSeen.After(infos[j].LastSeen)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartReaper launches a background goroutine that ends idle sessions.
// Call Stop() to shut it down.
func (r *Registry) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	r.reaperStop = make(chan struct{})
	r.reaperDone = make(chan struct{})

	go r.reapLoop(cfg)
	slog.Info("session: reaper started",
		"idle_timeout", cfg.IdleTimeout,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the reaper goroutine.
func (r *Registry) Stop() {
	if r.reaperStop != nil {
		close(r.reaperStop)
		<-r.reaperDone
		r.reaperStop = nil
		r.reaperDone = nil
	}
}

func (r *Registry) reapLoop(cfg *ReaperConfig) {
	defer close(r.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.reaperStop:
			return
		case <-ticker.C:
			r.sweep(cfg)
		}
	}
}

func (r *Registry) sweep(cfg *ReaperConfig) []string {
	now := r.now()

	var reaped []string
	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > cfg.IdleTimeout {
			delete(r.sessions, id)
			reaped = append(reaped, id)
		}
	}
	r.mu.Unlock()

	sort.Strings(reaped)
	for _, id := range reaped {
		slog.Info("session: reaper ended idle session",
			"session_id", id,
			"idle_timeout", cfg.IdleTimeout)
		if cfg.OnEnd != nil {
			cfg.OnEnd(id, ReasonIdle)
		}
	}
	return reaped
}
