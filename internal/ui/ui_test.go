package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

func init() {
	ForceNoColor()
}

func TestColorFromEnv(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{"TTY", nil, true, true},
		{"Pipe", nil, false, false},
		{"NoColor", map[string]string{"NO_COLOR": "1"}, true, false},
		{"NoColorBeatsForce", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, true, false},
		{"Force", map[string]string{"CLICOLOR_FORCE": "1"}, false, true},
		{"CliColorOff", map[string]string{"CLICOLOR": "0"}, true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			getenv := func(k string) string { return tc.env[k] }
			if got := colorFromEnv(getenv, func() bool { return tc.tty }); got != tc.want {
				t.Errorf("colorFromEnv = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	for _, tc := range []struct {
		v        any
		currency bool
		want     string
	}{
		{nil, false, ""},
		{"Acme", false, "Acme"},
		{json.Number("87"), false, "87"},
		{0.25, false, "0.25"},
		{true, false, "true"},
		{json.Number("50000"), true, "$50,000.00"},
		{"n/a", true, "n/a"},
	} {
		if got := FormatValue(tc.v, tc.currency); got != tc.want {
			t.Errorf("FormatValue(%v, %v) = %q, want %q", tc.v, tc.currency, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Alice Johnson", 8); got != "Alice..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("unbounded text", 0); got != "unbounded text" {
		t.Errorf("truncate = %q", got)
	}
}

func TestLeadTable_Render(t *testing.T) {
	leads := []model.Lead{
		{"id": 1, "name": "John Doe", "score": 87, "risk_score": 0.8, "projected_ltv": 1500},
		{"id": 2, "name": "Jane Smith", "score": 92, "risk_score": 0.1},
	}
	v, err := session.BuildView(leads, model.DefaultFilterState())
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	var buf bytes.Buffer
	if err := NewLeadTable(style.DefaultPalette).Render(&buf, v); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "TIER") || !strings.Contains(lines[0], "COMPANY") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], " HIGH ") || !strings.Contains(lines[1], "$1,500.00") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], " LOW ") || !strings.Contains(lines[2], "Jane Smith") {
		t.Errorf("row 2 = %q", lines[2])
	}
	if !strings.HasSuffix(out, "Showing 2 out of 2 leads\n") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestLeadTable_RenderEmpty(t *testing.T) {
	v, _ := session.BuildView(nil, model.DefaultFilterState())
	var buf bytes.Buffer
	if err := NewLeadTable(style.DefaultPalette).Render(&buf, v); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Showing 0 out of 0 leads\n" {
		t.Errorf("out = %q", buf.String())
	}
}

func TestRenderGraph(t *testing.T) {
	g := &model.Graph{
		Nodes: []model.GraphNode{{ID: "1", Label: "A", ColorTier: model.TierMedium, Size: 10, Tooltip: "A"}},
		Edges: []model.GraphEdge{{Source: "1", Target: "1"}},
		Stats: model.GraphStats{NodeCount: 1, EdgeCount: 1, ComponentCount: 1, SelfLoops: 1},
	}
	var buf bytes.Buffer
	if err := RenderGraph(&buf, g, style.DefaultPalette); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{" MEDIUM ", "1 -- 1", "1 nodes, 1 edges, 1 components", "self-loops 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
