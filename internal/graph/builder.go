// Package graph turns a lead collection plus a relationship map into a
// styled graph for force-directed rendering.
//
// The builder never fails on missing optional fields or on relationship
// entries that point at unknown leads; those are skipped. Only a field of
// the wrong type (for example a string risk_score) aborts a build.
package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

// Defaults applied to resolved leads lacking the field.
const (
	DefaultRisk = 0.0
	DefaultLTV  = 100.0
)

// Builder builds graphs with a fixed palette.
type Builder struct {
	Palette style.Palette
	Logger  *slog.Logger // nil uses slog.Default()
}

// NewBuilder returns a builder coloring nodes with p.
func NewBuilder(p style.Palette) *Builder {
	return &Builder{Palette: p}
}

// Build builds a graph with the default palette.
func Build(leads []model.Lead, rels model.RelationshipMap) (*model.Graph, error) {
	return NewBuilder(style.DefaultPalette).Build(leads, rels)
}

// Build derives the graph of leads under rels.
//
// Leads are indexed by id; when ids repeat the last record wins but the node
// keeps the position of the first. A node is emitted for every indexed lead
// whose id also appears in rels, in lead order. Each connection between two
// emitted nodes becomes one undirected edge; a pair listed from both sides
// is emitted once. Self-references produce a single self-loop edge.
func (b *Builder) Build(leads []model.Lead, rels model.RelationshipMap) (*model.Graph, error) {
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}

	// Index by id: order of first appearance, record of last appearance.
	var order []string
	latest := make(map[string]int, len(leads))
	duplicates := 0
	for i, l := range leads {
		id, ok := l.ID()
		if !ok {
			continue
		}
		if _, seen := latest[id]; seen {
			duplicates++
		} else {
			order = append(order, id)
		}
		latest[id] = i
	}

	g := &model.Graph{Nodes: []model.GraphNode{}, Edges: []model.GraphEdge{}}
	ug := simple.NewUndirectedGraph()
	nodeIDs := make(map[string]int64)

	for _, id := range order {
		if !rels.Has(id) {
			continue
		}
		i := latest[id]
		node, err := b.node(id, leads[i])
		if err != nil {
			var ire *model.InvalidRecordError
			if errors.As(err, &ire) {
				ire.Index = i
			}
			return nil, fmt.Errorf("building graph: %w", err)
		}
		n := simple.Node(len(g.Nodes))
		ug.AddNode(n)
		nodeIDs[id] = n.ID()
		g.Nodes = append(g.Nodes, node)
	}

	selfLoops := make(map[string]bool)
	dangling := 0
	for _, node := range g.Nodes {
		u := nodeIDs[node.ID]
		for _, c := range rels[node.ID].Connections {
			target := string(c)
			v, ok := nodeIDs[target]
			if !ok {
				dangling++
				continue
			}
			if u == v {
				// gonum's simple graphs reject self edges, so track them here.
				if !selfLoops[target] {
					selfLoops[target] = true
					g.Edges = append(g.Edges, model.GraphEdge{Source: node.ID, Target: target})
				}
				continue
			}
			if ug.HasEdgeBetween(u, v) {
				continue
			}
			ug.SetEdge(ug.NewEdge(ug.Node(u), ug.Node(v)))
			g.Edges = append(g.Edges, model.GraphEdge{Source: node.ID, Target: target})
		}
	}

	g.Stats = model.GraphStats{
		NodeCount:           len(g.Nodes),
		EdgeCount:           len(g.Edges),
		ComponentCount:      len(topo.ConnectedComponents(ug)),
		SelfLoops:           len(selfLoops),
		DanglingConnections: dangling,
		DuplicateIDs:        duplicates,
	}

	if duplicates > 0 || len(selfLoops) > 0 {
		log.Debug("graph: data quality",
			"duplicate_ids", duplicates,
			"self_loops", len(selfLoops))
	}
	return g, nil
}

func (b *Builder) node(id string, l model.Lead) (model.GraphNode, error) {
	risk, err := l.FloatOr(model.FieldRiskScore, DefaultRisk)
	if err != nil {
		return model.GraphNode{}, err
	}
	ltv, err := l.FloatOr(model.FieldProjectedLTV, DefaultLTV)
	if err != nil {
		return model.GraphNode{}, err
	}
	label, present, err := l.String(model.FieldName)
	if err != nil {
		return model.GraphNode{}, err
	}
	if !present {
		label = "Lead " + id
	}

	tier := style.ColorTier(risk)
	return model.GraphNode{
		ID:        id,
		Label:     label,
		ColorTier: tier,
		Color:     b.Palette.Color(tier),
		Size:      style.NodeSize(ltv),
		Tooltip:   style.Tooltip(label, risk, ltv),
	}, nil
}
