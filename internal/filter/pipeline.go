package filter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// predicate decides whether a lead survives one filter dimension.
type predicate func(model.Lead) (bool, error)

// Apply returns the leads that satisfy every active predicate of state, in
// input order. Records are returned as-is; no fields are added or removed.
//
// A lead whose score, win probability, market signal or recommended action
// has the wrong type aborts the pass with an error wrapping
// *model.InvalidRecordError carrying the lead's index.
func Apply(leads []model.Lead, state model.FilterState) ([]model.Lead, error) {
	preds := predicates(state.Normalize())
	out := make([]model.Lead, 0, len(leads))
	for i, l := range leads {
		keep, err := matchAll(l, preds)
		if err != nil {
			var ire *model.InvalidRecordError
			if errors.As(err, &ire) {
				ire.Index = i
			}
			return nil, fmt.Errorf("filtering leads: %w", err)
		}
		if keep {
			out = append(out, l)
		}
	}
	return out, nil
}

func matchAll(l model.Lead, preds []predicate) (bool, error) {
	for _, p := range preds {
		ok, err := p(l)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// predicates builds the active predicate list. Range predicates always
// apply; a record without the field passes them.
func predicates(s model.FilterState) []predicate {
	preds := []predicate{
		inRange(model.FieldScore, s.ScoreRange),
		inRange(model.FieldWinProbability, s.WinProbabilityRange),
	}
	if s.MarketSignalOnly {
		preds = append(preds, marketSignal)
	}
	if len(s.RecommendedActions) > 0 {
		preds = append(preds, actionIn(s.RecommendedActions))
	}
	return preds
}

func inRange(field string, r model.Range) predicate {
	return func(l model.Lead) (bool, error) {
		v, present, err := l.Float(field)
		if err != nil {
			return false, err
		}
		return !present || r.Contains(v), nil
	}
}

// marketSignal fails closed: a lead without the flag is excluded.
func marketSignal(l model.Lead) (bool, error) {
	v, _, err := l.Bool(model.FieldMarketSignalDetected)
	return v, err
}

func actionIn(actions []string) predicate {
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return func(l model.Lead) (bool, error) {
		a, present, err := l.String(model.FieldRecommendedAction)
		if err != nil || !present {
			return false, err
		}
		_, ok := set[a]
		return ok, nil
	}
}

// ActionChoices returns the distinct non-empty recommended_action values
// across leads, sorted. Non-string values are ignored.
func ActionChoices(leads []model.Lead) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range leads {
		a, ok := l[model.FieldRecommendedAction].(string)
		if !ok || a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Summary renders the table caption, e.g. "Showing 2 out of 3 leads".
func Summary(shown, total int) string {
	return fmt.Sprintf("Showing %d out of %d leads", shown, total)
}
