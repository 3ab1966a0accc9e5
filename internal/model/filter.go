package model

import "sort"

// Bounds shared by the score and win probability ranges.
const (
	RangeFloor = 0
	RangeCeil  = 100
)

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullRange returns the unrestricted range (0, 100).
func FullRange() Range {
	return Range{Min: RangeFloor, Max: RangeCeil}
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return float64(r.Min) <= v && v <= float64(r.Max)
}

// Normalize swaps inverted bounds and clamps both into [RangeFloor, RangeCeil].
func (r Range) Normalize() Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	r.Min = clampInt(r.Min, RangeFloor, RangeCeil)
	r.Max = clampInt(r.Max, RangeFloor, RangeCeil)
	return r
}

// FilterState holds the active filter criteria of one session.
type FilterState struct {
	ScoreRange          Range    `json:"score_range"`
	WinProbabilityRange Range    `json:"win_probability_range"`
	MarketSignalOnly    bool     `json:"market_signal_only"`
	RecommendedActions  []string `json:"recommended_actions"` // empty = no restriction
}

// DefaultFilterState returns the state every session starts with and every
// reset restores.
func DefaultFilterState() FilterState {
	return FilterState{
		ScoreRange:          FullRange(),
		WinProbabilityRange: FullRange(),
		MarketSignalOnly:    false,
		RecommendedActions:  []string{},
	}
}

// Normalize returns a copy with valid ranges and a deduplicated, sorted
// action set.
func (s FilterState) Normalize() FilterState {
	s.ScoreRange = s.ScoreRange.Normalize()
	s.WinProbabilityRange = s.WinProbabilityRange.Normalize()
	s.RecommendedActions = normalizeActions(s.RecommendedActions)
	return s
}

// Clone returns a deep copy.
func (s FilterState) Clone() FilterState {
	actions := make([]string, len(s.RecommendedActions))
	copy(actions, s.RecommendedActions)
	s.RecommendedActions = actions
	return s
}

// IsDefault reports whether s restricts nothing.
func (s FilterState) IsDefault() bool {
	return s.ScoreRange == FullRange() &&
		s.WinProbabilityRange == FullRange() &&
		!s.MarketSignalOnly &&
		len(s.RecommendedActions) == 0
}

// FilterPatch holds optional updates to a FilterState.
// Nil fields mean "don't change"; a non-nil empty RecommendedActions clears
// the action restriction.
type FilterPatch struct {
	ScoreRange          *Range   `json:"score_range,omitempty"`
	WinProbabilityRange *Range   `json:"win_probability_range,omitempty"`
	MarketSignalOnly    *bool    `json:"market_signal_only,omitempty"`
	RecommendedActions  []string `json:"recommended_actions,omitempty" validate:"omitempty,max=64,dive,max=200"`
}

// Merge applies the patch to s and normalizes the result.
func (p FilterPatch) Merge(s FilterState) FilterState {
	s = s.Clone()
	if p.ScoreRange != nil {
		s.ScoreRange = *p.ScoreRange
	}
	if p.WinProbabilityRange != nil {
		s.WinProbabilityRange = *p.WinProbabilityRange
	}
	if p.MarketSignalOnly != nil {
		s.MarketSignalOnly = *p.MarketSignalOnly
	}
	if p.RecommendedActions != nil {
		s.RecommendedActions = p.RecommendedActions
	}
	return s.Normalize()
}

func normalizeActions(actions []string) []string {
	seen := make(map[string]bool, len(actions))
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
