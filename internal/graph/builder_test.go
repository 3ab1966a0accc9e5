package graph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

func rel(ids ...model.LeadID) model.Relationship {
	return model.Relationship{Connections: ids}
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(nil, model.RelationshipMap{"1": rel("2")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Nodes == nil || g.Edges == nil {
		t.Fatal("expected non-nil empty slices")
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("Build([]) = %d nodes, %d edges; want 0, 0", len(g.Nodes), len(g.Edges))
	}
}

func TestBuild_TwoLeadScenario(t *testing.T) {
	leads := []model.Lead{
		{"id": 1, "name": "A", "risk_score": 0.2, "projected_ltv": 200},
		{"id": 2, "name": "B", "risk_score": 0.8, "projected_ltv": 50},
	}
	rels := model.RelationshipMap{
		"1": rel("2"),
		"2": rel("1", "3"),
	}
	g, err := Build(leads, rels)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := &model.Graph{
		Nodes: []model.GraphNode{
			{ID: "1", Label: "A", ColorTier: model.TierLow, Color: "green", Size: 60, Tooltip: "A<br>Risk: 0.20<br>LTV: $200.00"},
			{ID: "2", Label: "B", ColorTier: model.TierHigh, Color: "red", Size: 35, Tooltip: "B<br>Risk: 0.80<br>LTV: $50.00"},
		},
		Edges: []model.GraphEdge{{Source: "1", Target: "2"}},
		Stats: model.GraphStats{NodeCount: 2, EdgeCount: 1, ComponentCount: 1, DanglingConnections: 1},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SkipsLeadsMissingFromMap(t *testing.T) {
	leads := []model.Lead{{"id": "a"}, {"id": "b"}, {"name": "no id"}}
	g, err := Build(leads, model.RelationshipMap{"b": rel("a")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "b" {
		t.Fatalf("expected only node b, got %+v", g.Nodes)
	}
	if len(g.Edges) != 0 {
		t.Errorf("edge to lead without map entry should be skipped, got %v", g.Edges)
	}
}

func TestBuild_Defaults(t *testing.T) {
	g, err := Build([]model.Lead{{"id": 7}}, model.RelationshipMap{"7": rel()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := g.Nodes[0]
	if n.Label != "Lead 7" {
		t.Errorf("Label = %q, want %q", n.Label, "Lead 7")
	}
	if n.ColorTier != model.TierLow || n.Size != 50 {
		t.Errorf("defaults: tier=%s size=%v, want LOW 50", n.ColorTier, n.Size)
	}
	if n.Tooltip != "Lead 7<br>Risk: 0.00<br>LTV: $100.00" {
		t.Errorf("Tooltip = %q", n.Tooltip)
	}
}

func TestBuild_EmptyNameKeptAsLabel(t *testing.T) {
	g, err := Build([]model.Lead{{"id": 1, "name": ""}}, model.RelationshipMap{"1": rel()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := g.Nodes[0]; n.Label != "" || n.Tooltip != "<br>Risk: 0.00<br>LTV: $100.00" {
		t.Errorf("node = %+v, want the empty name as label", n)
	}
}

func TestBuild_DuplicateIDsLastWriteWins(t *testing.T) {
	leads := []model.Lead{
		{"id": 1, "name": "first", "risk_score": 0.1},
		{"id": 2, "name": "other"},
		{"id": 1.0, "name": "second", "risk_score": 0.9},
	}
	g, err := Build(leads, model.RelationshipMap{"1": rel(), "2": rel()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].ID != "1" || g.Nodes[0].Label != "second" || g.Nodes[0].ColorTier != model.TierHigh {
		t.Errorf("node 1 = %+v, want data from last duplicate at first position", g.Nodes[0])
	}
	if g.Stats.DuplicateIDs != 1 {
		t.Errorf("DuplicateIDs = %d, want 1", g.Stats.DuplicateIDs)
	}
}

func TestBuild_SelfLoopKeptOnce(t *testing.T) {
	leads := []model.Lead{{"id": "x"}}
	g, err := Build(leads, model.RelationshipMap{"x": rel("x", "x")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]model.GraphEdge{{Source: "x", Target: "x"}}, g.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if g.Stats.SelfLoops != 1 {
		t.Errorf("SelfLoops = %d, want 1", g.Stats.SelfLoops)
	}
}

func TestBuild_ComponentCount(t *testing.T) {
	leads := []model.Lead{{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}}
	rels := model.RelationshipMap{
		"1": rel("2"),
		"2": rel("1"),
		"3": rel("4"),
		"4": rel(),
		"5": rel(),
	}
	g, err := Build(leads, rels)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Stats.ComponentCount != 3 {
		t.Errorf("ComponentCount = %d, want 3", g.Stats.ComponentCount)
	}
	if g.Stats.EdgeCount != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.Stats.EdgeCount)
	}
}

func TestBuild_InvalidRecord(t *testing.T) {
	leads := []model.Lead{{"id": 1}, {"id": 2, "projected_ltv": "big"}}
	_, err := Build(leads, model.RelationshipMap{"1": rel(), "2": rel()})
	var ire *model.InvalidRecordError
	if !errors.As(err, &ire) {
		t.Fatalf("expected *InvalidRecordError, got %v", err)
	}
	if ire.Index != 1 || ire.Field != model.FieldProjectedLTV {
		t.Errorf("unexpected error detail: %+v", ire)
	}
}

func TestBuild_InvalidRecordOutsideMapIgnored(t *testing.T) {
	leads := []model.Lead{{"id": 1}, {"id": 2, "risk_score": "high"}}
	if _, err := Build(leads, model.RelationshipMap{"1": rel("2")}); err != nil {
		t.Fatalf("lead without map entry is never styled, got %v", err)
	}
}

func TestBuilder_Palette(t *testing.T) {
	b := NewBuilder(style.Palette{Low: "#0f0", Medium: "#ff0", High: "#f00"})
	g, err := b.Build([]model.Lead{{"id": 1, "risk_score": 0.5}}, model.RelationshipMap{"1": rel()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Nodes[0].Color != "#ff0" {
		t.Errorf("Color = %q, want #ff0", g.Nodes[0].Color)
	}
}

func TestBuildProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genLeads := gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 9),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1000),
	).Map(func(v []interface{}) model.Lead {
		return model.Lead{"id": v[0].(int), "risk_score": v[1].(float64), "projected_ltv": v[2].(float64)}
	}))
	genRels := gen.MapOf(
		gen.IntRange(0, 12).Map(func(i int) string { return model.FormatID(i) }),
		gen.SliceOf(gen.IntRange(0, 12).Map(func(i int) model.LeadID { return model.LeadID(model.FormatID(i)) })).
			Map(func(c []model.LeadID) model.Relationship { return model.Relationship{Connections: c} }),
	).Map(func(m map[string]model.Relationship) model.RelationshipMap { return model.RelationshipMap(m) })

	properties.Property("edges join emitted nodes and are never duplicated", prop.ForAll(
		func(leads []model.Lead, rels model.RelationshipMap) bool {
			g, err := Build(leads, rels)
			if err != nil {
				return false
			}
			nodes := make(map[string]bool)
			for _, n := range g.Nodes {
				if nodes[n.ID] || !rels.Has(n.ID) {
					return false
				}
				nodes[n.ID] = true
			}
			seen := make(map[[2]string]bool)
			for _, e := range g.Edges {
				if !nodes[e.Source] || !nodes[e.Target] {
					return false
				}
				key := [2]string{e.Source, e.Target}
				if e.Target < e.Source {
					key = [2]string{e.Target, e.Source}
				}
				if seen[key] {
					return false
				}
				seen[key] = true
			}
			return g.Stats.NodeCount == len(g.Nodes) && g.Stats.EdgeCount == len(g.Edges)
		},
		genLeads,
		genRels,
	))

	properties.Property("build is deterministic", prop.ForAll(
		func(leads []model.Lead, rels model.RelationshipMap) bool {
			a, errA := Build(leads, rels)
			b, errB := Build(leads, rels)
			return errA == nil && errB == nil && cmp.Equal(a, b)
		},
		genLeads,
		genRels,
	))

	properties.TestingRun(t)
}
