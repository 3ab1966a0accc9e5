// Package filter holds the per-session filter state and the pipeline that
// reduces a lead collection to the records matching it.
package filter

import (
	"sync"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// Store owns one session's FilterState. All methods are safe for concurrent
// use; readers never observe a partially applied update or reset.
type Store struct {
	mu    sync.Mutex
	state model.FilterState
}

// NewStore returns a store holding the default state.
func NewStore() *Store {
	return &Store{state: model.DefaultFilterState()}
}

// Get returns a copy of the current state.
func (s *Store) Get() model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Set merges the non-nil fields of p into the current state. Inverted ranges
// are swapped and out-of-bounds values clamped rather than rejected.
// It returns the resulting state.
func (s *Store) Set(p model.FilterPatch) model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = p.Merge(s.state)
	return s.state.Clone()
}

// Replace swaps in a whole state, normalized.
func (s *Store) Replace(state model.FilterState) model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone().Normalize()
	return s.state.Clone()
}

// Reset restores the defaults.
func (s *Store) Reset() model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.DefaultFilterState()
	return s.state.Clone()
}
