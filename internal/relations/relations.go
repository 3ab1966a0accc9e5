// Package relations infers which leads are related to each other.
//
// Inference sits behind the Inferer interface so the graph endpoints can be
// fed by any strategy. SharedAttribute is the built-in one.
package relations

import (
	"context"
	"sort"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// Inferer produces a relationship map for a lead collection.
type Inferer interface {
	Infer(ctx context.Context, leads []model.Lead) (model.RelationshipMap, error)
}

// InferFunc adapts a function to the Inferer interface.
type InferFunc func(ctx context.Context, leads []model.Lead) (model.RelationshipMap, error)

// Infer calls f.
func (f InferFunc) Infer(ctx context.Context, leads []model.Lead) (model.RelationshipMap, error) {
	return f(ctx, leads)
}

// DefaultFields are the attributes SharedAttribute compares when none are set.
var DefaultFields = []string{model.FieldCompany, model.FieldRecommendedAction}

// SharedAttribute connects two leads when they hold the same non-empty value
// in any of Fields. Every lead with an id gets an entry, even when it has no
// connections. Connections follow lead order and never include the lead
// itself.
type SharedAttribute struct {
	Fields []string
}

// Infer implements Inferer.
func (s SharedAttribute) Infer(ctx context.Context, leads []model.Lead) (model.RelationshipMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields := s.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}

	// Index by id like the graph builder: first position, last record.
	var order []string
	pos := make(map[string]int)
	latest := make(map[string]model.Lead)
	for _, l := range leads {
		id, ok := l.ID()
		if !ok {
			continue
		}
		if _, seen := pos[id]; !seen {
			pos[id] = len(order)
			order = append(order, id)
		}
		latest[id] = l
	}

	type attr struct{ field, value string }
	groups := make(map[attr][]string)
	for _, id := range order {
		for _, f := range fields {
			if v, ok := attrValue(latest[id], f); ok {
				k := attr{f, v}
				groups[k] = append(groups[k], id)
			}
		}
	}

	rels := make(model.RelationshipMap, len(order))
	for _, id := range order {
		linked := make(map[string]bool)
		for _, f := range fields {
			v, ok := attrValue(latest[id], f)
			if !ok {
				continue
			}
			for _, other := range groups[attr{f, v}] {
				if other != id {
					linked[other] = true
				}
			}
		}
		conns := make([]string, 0, len(linked))
		for other := range linked {
			conns = append(conns, other)
		}
		sort.Slice(conns, func(i, j int) bool { return pos[conns[i]] < pos[conns[j]] })

		r := model.Relationship{Connections: make([]model.LeadID, len(conns))}
		for i, c := range conns {
			r.Connections[i] = model.LeadID(c)
		}
		rels[id] = r
	}
	return rels, nil
}

// attrValue returns the comparable form of a field: non-empty strings and
// numbers. Other kinds never link leads.
func attrValue(l model.Lead, field string) (string, bool) {
	switch v := l[field].(type) {
	case string:
		return v, v != ""
	case nil, bool, map[string]any, []any:
		return "", false
	default:
		if _, present, err := l.Float(field); err != nil || !present {
			return "", false
		}
		return model.FormatID(v), true
	}
}
