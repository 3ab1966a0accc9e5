package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/config"
	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/store/memory"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

func init() { ui.ForceNoColor() }

// writeLeads writes leads as a JSON array file and returns its path.
func writeLeads(t *testing.T, leads []model.Lead) string {
	t.Helper()
	data, err := json.Marshal(leads)
	if err != nil {
		t.Fatalf("marshal leads: %v", err)
	}
	path := filepath.Join(t.TempDir(), "leads.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write leads: %v", err)
	}
	return path
}

// setFlags sets flags on cmd and restores their defaults after the test.
func setFlags(t *testing.T, cmd *cobra.Command, kv map[string]string) {
	t.Helper()
	for name, v := range kv {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("no flag %q on %s", name, cmd.Name())
		}
		def := f.DefValue
		if err := cmd.Flags().Set(name, v); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
		t.Cleanup(func() {
			if sv, ok := f.Value.(interface{ Replace([]string) error }); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(def)
			}
			f.Changed = false
		})
	}
}

func runCmd(t *testing.T, cmd *cobra.Command) string {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("%s: %v", cmd.Name(), err)
	}
	return buf.String()
}

func TestFilterStateFromFlags(t *testing.T) {
	setFlags(t, leadsCmd, map[string]string{
		"score-min":     "120",
		"score-max":     "70",
		"market-signal": "true",
		"action":        "Send Proposal",
	})

	got := filterStateFromFlags(leadsCmd)
	want := model.FilterState{
		ScoreRange:          model.Range{Min: 70, Max: 100},
		WinProbabilityRange: model.FullRange(),
		MarketSignalOnly:    true,
		RecommendedActions:  []string{"Send Proposal"},
	}
	if got.ScoreRange != want.ScoreRange || got.WinProbabilityRange != want.WinProbabilityRange ||
		got.MarketSignalOnly != want.MarketSignalOnly ||
		len(got.RecommendedActions) != 1 || got.RecommendedActions[0] != "Send Proposal" {
		t.Errorf("filterStateFromFlags = %+v, want %+v", got, want)
	}
}

func TestFilterStateFromFlags_Defaults(t *testing.T) {
	if got := filterStateFromFlags(leadsCmd); !got.IsDefault() {
		t.Errorf("default flags should yield the default state, got %+v", got)
	}
}

func TestLeadsCmd_LocalFileJSON(t *testing.T) {
	path := writeLeads(t, memory.MockLeads())
	setFlags(t, leadsCmd, map[string]string{"file": path, "score-min": "80"})
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var v session.View
	if err := json.Unmarshal([]byte(runCmd(t, leadsCmd)), &v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if v.Shown != 2 || v.Total != 3 {
		t.Errorf("shown/total = %d/%d, want 2/3", v.Shown, v.Total)
	}
	if len(v.Actions) != 3 {
		t.Errorf("actions should cover the whole collection, got %v", v.Actions)
	}
}

func TestLeadsCmd_LocalFileTable(t *testing.T) {
	path := writeLeads(t, memory.MockLeads())
	setFlags(t, leadsCmd, map[string]string{"file": path, "action": "Schedule Call"})

	out := runCmd(t, leadsCmd)
	if !strings.Contains(out, "Alice Johnson") {
		t.Errorf("table missing the matching lead:\n%s", out)
	}
	if strings.Contains(out, "John Doe") {
		t.Errorf("table shows a filtered-out lead:\n%s", out)
	}
}

func TestLeadsCmd_InvalidFile(t *testing.T) {
	path := writeLeads(t, []model.Lead{{"id": 1, "score": "high"}})
	setFlags(t, leadsCmd, map[string]string{"file": path})
	leadsCmd.SetContext(context.Background())

	if err := leadsCmd.RunE(leadsCmd, nil); err == nil {
		t.Fatal("expected an error for a non-numeric score")
	}
}

func TestActionsCmd_LocalFile(t *testing.T) {
	path := writeLeads(t, memory.MockLeads())
	setFlags(t, actionsCmd, map[string]string{"file": path})

	lines := strings.Split(strings.TrimSpace(runCmd(t, actionsCmd)), "\n")
	want := []string{"Move to Contract Stage", "Schedule Call", "Send Proposal"}
	if len(lines) != len(want) {
		t.Fatalf("actions = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("actions[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestGraphCmd_LocalFile(t *testing.T) {
	leads := []model.Lead{
		{"id": 1, "name": "A", "company": "Acme", "risk_score": 0.9, "projected_ltv": 200},
		{"id": 2, "name": "B", "company": "Acme"},
		{"id": 3, "name": "C", "company": "Beta"},
	}
	setFlags(t, graphCmd, map[string]string{"file": writeLeads(t, leads), "link": "company"})
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var g model.Graph
	if err := json.Unmarshal([]byte(runCmd(t, graphCmd)), &g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(g.Nodes) != 3 || len(g.Edges) != 1 {
		t.Fatalf("graph has %d nodes, %d edges; want 3, 1", len(g.Nodes), len(g.Edges))
	}
	if n, ok := g.Node("1"); !ok || n.Size != 60 {
		t.Errorf("node 1 = %+v, want size 60", n)
	}
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	src, err := openSource(ctx, &config.Config{Source: config.SourceMock})
	if err != nil {
		t.Fatalf("mock source: %v", err)
	}
	leads, err := src.ListLeads(ctx)
	if err != nil || len(leads) != 3 {
		t.Errorf("mock source leads = %d, %v", len(leads), err)
	}

	path := writeLeads(t, memory.MockLeads()[:1])
	src, err = openSource(ctx, &config.Config{Source: config.SourceFile, File: path})
	if err != nil {
		t.Fatalf("file source: %v", err)
	}
	if leads, err := src.ListLeads(ctx); err != nil || len(leads) != 1 {
		t.Errorf("file source leads = %d, %v", len(leads), err)
	}

	if _, err := openSource(ctx, &config.Config{Source: config.SourceFile, File: filepath.Join(t.TempDir(), "leads.xml")}); err == nil {
		t.Error("expected error for an unsupported file type")
	}
}

func TestPrintEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	printEvent(&buf, at, "leads.filters.updated", []byte(`{ "session_id": "ses-1" }`))
	if got, want := buf.String(), "09:30:00  leads.filters.updated  {\"session_id\":\"ses-1\"}\n"; got != want {
		t.Errorf("printEvent = %q, want %q", got, want)
	}

	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
	buf.Reset()
	printEvent(&buf, at, "leads.graph.built", []byte(`{"nodes":3}`))
	var decoded struct {
		Topic string          `json:"topic"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output not valid: %v (%q)", err, buf.String())
	}
	if decoded.Topic != "leads.graph.built" || string(decoded.Data) != `{"nodes":3}` {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestColorizeHelpOutput_PlainTextPreserved(t *testing.T) {
	in := "Leads:\n  leads       List leads\n\nFlags:\n      --score-min int   minimum lead score (default 0)\n"
	out := colorizeHelpOutput(in)
	for _, s := range []string{"Leads:", "leads", "--score-min", "int", "(default 0)"} {
		if !strings.Contains(out, s) {
			t.Errorf("colorized help lost %q:\n%s", s, out)
		}
	}
}
