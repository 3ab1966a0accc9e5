package style

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

func TestColorTier_Boundaries(t *testing.T) {
	tests := []struct {
		risk float64
		want model.RiskTier
	}{
		{-1, model.TierLow},
		{0, model.TierLow},
		{0.2, model.TierLow},
		{0.39999, model.TierLow},
		{0.4, model.TierMedium},
		{0.55, model.TierMedium},
		{0.69999, model.TierMedium},
		{0.7, model.TierHigh},
		{0.8, model.TierHigh},
		{1, model.TierHigh},
		{42, model.TierHigh},
		{math.NaN(), model.TierLow},
	}
	for _, tt := range tests {
		if got := ColorTier(tt.risk); got != tt.want {
			t.Errorf("ColorTier(%v) = %s, want %s", tt.risk, got, tt.want)
		}
	}
}

func TestNodeSize(t *testing.T) {
	tests := []struct {
		ltv  float64
		want float64
	}{
		{0, 20},
		{50, 35},
		{100, 50},
		{133.33333333333334, 60},
		{200, 60},
		{1e9, 60},
		{-50, 10},
		{-1e9, 10},
		{math.NaN(), 10},
	}
	for _, tt := range tests {
		if got := NodeSize(tt.ltv); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NodeSize(%v) = %v, want %v", tt.ltv, got, tt.want)
		}
	}
}

func TestRowHighlight(t *testing.T) {
	tests := []struct {
		risk, ltv float64
		want      bool
	}{
		{0.7, 100, true},
		{0.9, 5000, true},
		{0.69, 5000, false},
		{0.9, 99.99, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := RowHighlight(tt.risk, tt.ltv); got != tt.want {
			t.Errorf("RowHighlight(%v, %v) = %v, want %v", tt.risk, tt.ltv, got, tt.want)
		}
	}
}

func TestTooltip(t *testing.T) {
	got := Tooltip("Acme", 0.2, 1234.5)
	want := "Acme<br>Risk: 0.20<br>LTV: $1,234.50"
	if got != want {
		t.Errorf("Tooltip() = %q, want %q", got, want)
	}
	if got := Tooltip("B", 0.756, 50); got != "B<br>Risk: 0.76<br>LTV: $50.00" {
		t.Errorf("Tooltip() = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1200000); got != "$1,200,000.00" {
		t.Errorf("FormatCurrency() = %q", got)
	}
}

func TestDecorate(t *testing.T) {
	tests := []struct {
		name string
		lead model.Lead
		want RowStyle
	}{
		{"empty", model.Lead{}, RowStyle{Tier: model.TierLow}},
		{"risky valuable", model.Lead{"risk_score": 0.8, "projected_ltv": 150}, RowStyle{Tier: model.TierHigh, Highlight: true}},
		{"risky no ltv", model.Lead{"risk_score": 0.8}, RowStyle{Tier: model.TierHigh}},
		{"medium", model.Lead{"risk_score": 0.5, "projected_ltv": 1000}, RowStyle{Tier: model.TierMedium}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decorate(tt.lead)
			if err != nil {
				t.Fatalf("Decorate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decorate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecorate_Malformed(t *testing.T) {
	if _, err := Decorate(model.Lead{"risk_score": "high"}); err == nil {
		t.Fatal("expected error for string risk_score")
	}
}

func TestPaletteColor(t *testing.T) {
	p := Palette{Low: "#00ff00", High: "crimson"}
	if got := p.Color(model.TierLow); got != "#00ff00" {
		t.Errorf("Color(LOW) = %q", got)
	}
	if got := p.Color(model.TierMedium); got != "yellow" {
		t.Errorf("Color(MEDIUM) = %q, want default yellow", got)
	}
	if got := p.Color(model.TierHigh); got != "crimson" {
		t.Errorf("Color(HIGH) = %q", got)
	}
	if got := DefaultPalette.Color(model.RiskTier("BOGUS")); got != "green" {
		t.Errorf("Color(unknown) = %q, want green", got)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPalette_TOML(t *testing.T) {
	path := writeFile(t, "palette.toml", "[palette]\nlow = \"#2ecc71\"\nhigh = \"#e74c3c\"\n")
	p, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}
	want := Palette{Low: "#2ecc71", Medium: "yellow", High: "#e74c3c"}
	if p != want {
		t.Errorf("LoadPalette() = %+v, want %+v", p, want)
	}
}

func TestLoadPalette_YAML(t *testing.T) {
	path := writeFile(t, "palette.yaml", "palette:\n  medium: orange\n")
	p, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}
	want := Palette{Low: "green", Medium: "orange", High: "red"}
	if p != want {
		t.Errorf("LoadPalette() = %+v, want %+v", p, want)
	}
}

func TestLoadPalette_Errors(t *testing.T) {
	if _, err := LoadPalette(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := writeFile(t, "bad.toml", "[palette\nlow=")
	if _, err := LoadPalette(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestStyleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("color tier is always one of three", prop.ForAll(
		func(r float64) bool {
			return ColorTier(r).IsValid()
		},
		gen.Float64(),
	))

	properties.Property("node size stays within bounds", prop.ForAll(
		func(ltv float64) bool {
			s := NodeSize(ltv)
			return s >= MinNodeSize && s <= MaxNodeSize
		},
		gen.Float64Range(0, 1e12),
	))

	properties.Property("node size is non-decreasing in ltv", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return NodeSize(a) <= NodeSize(b)
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}
