package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

// Column is one lead table column.
type Column struct {
	Header   string
	Field    string
	MaxWidth int // 0 = unbounded
	Currency bool
}

// DefaultColumns is the dashboard table layout.
var DefaultColumns = []Column{
	{Header: "ID", Field: model.FieldID},
	{Header: "NAME", Field: model.FieldName, MaxWidth: 24},
	{Header: "COMPANY", Field: model.FieldCompany, MaxWidth: 20},
	{Header: "SCORE", Field: model.FieldScore},
	{Header: "WIN %", Field: model.FieldWinProbability},
	{Header: "RISK", Field: model.FieldRiskScore},
	{Header: "LTV", Field: model.FieldProjectedLTV, Currency: true},
	{Header: "ACTION", Field: model.FieldRecommendedAction, MaxWidth: 28},
}

// LeadTable renders styled view rows: a tier badge per row, and bold
// highlighting for rows that need attention.
type LeadTable struct {
	Palette style.Palette
	Columns []Column
}

// NewLeadTable returns a table with the default columns.
func NewLeadTable(p style.Palette) *LeadTable {
	return &LeadTable{Palette: p, Columns: DefaultColumns}
}

// Render writes the table followed by the view summary.
func (t *LeadTable) Render(w io.Writer, v *session.View) error {
	if len(v.Rows) == 0 {
		_, err := fmt.Fprintln(w, RenderMuted(v.Summary))
		return err
	}

	cells := make([][]string, len(v.Rows))
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Header)
	}
	for r, row := range v.Rows {
		cells[r] = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			s := truncate(FormatValue(row.Lead[c.Field], c.Currency), c.MaxWidth)
			cells[r][i] = s
			widths[i] = max(widths[i], lipgloss.Width(s))
		}
	}

	var sb strings.Builder
	sb.WriteString(pad("TIER", 8))
	for i, c := range t.Columns {
		sb.WriteString(render(headerStyle, pad(c.Header, widths[i]+2)))
	}
	sb.WriteString("\n")

	for r, row := range v.Rows {
		badge := RenderTier(t.Palette, row.Tier)
		sb.WriteString(badge + strings.Repeat(" ", max(0, 8-lipgloss.Width(badge))))
		var line strings.Builder
		for i := range t.Columns {
			line.WriteString(pad(cells[r][i], widths[i]+2))
		}
		if row.Highlight {
			sb.WriteString(render(highlightStyle, line.String()))
		} else {
			sb.WriteString(line.String())
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + RenderMuted(v.Summary) + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatValue renders a lead field for display. Missing values are blank.
func FormatValue(v any, currency bool) string {
	if currency {
		if f, ok := number(v); ok {
			return style.FormatCurrency(f)
		}
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func truncate(s string, limit int) string {
	if limit <= 0 || lipgloss.Width(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// RenderGraph writes a node listing, the edge list and the graph stats.
func RenderGraph(w io.Writer, g *model.Graph, p style.Palette) error {
	var sb strings.Builder
	sb.WriteString(RenderAccent("Nodes:") + "\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "  %s %-8s %s %s\n",
			RenderTier(p, n.ColorTier), n.ID, n.Label,
			RenderMuted(fmt.Sprintf("(size %g, %s)", n.Size, n.Tooltip)))
	}
	sb.WriteString(RenderAccent("Edges:") + "\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %s -- %s\n", e.Source, e.Target)
	}
	s := g.Stats
	fmt.Fprintf(&sb, "\n%d nodes, %d edges, %d components\n", s.NodeCount, s.EdgeCount, s.ComponentCount)
	if s.SelfLoops > 0 || s.DanglingConnections > 0 || s.DuplicateIDs > 0 {
		sb.WriteString(RenderMuted(fmt.Sprintf("self-loops %d, dangling connections %d, duplicate ids %d",
			s.SelfLoops, s.DanglingConnections, s.DuplicateIDs)) + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
