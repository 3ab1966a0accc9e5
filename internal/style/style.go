// Package style maps lead risk and value figures to visual attributes:
// color tier, node size, tooltip text and table row highlighting.
// All functions are pure.
package style

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// Tier boundaries. A risk equal to a boundary belongs to the higher tier.
const (
	MediumRiskThreshold = 0.4
	HighRiskThreshold   = 0.7
)

// Node size parameters.
const (
	MinNodeSize = 10.0
	MaxNodeSize = 60.0
	baseSize    = 20.0
	sizePerUnit = 30.0 // added per 100 of LTV
)

// Row highlight thresholds: high risk and high value.
const (
	HighlightRisk = HighRiskThreshold
	HighlightLTV  = 100.0
)

// ColorTier classifies a risk score. NaN is treated as LOW.
func ColorTier(risk float64) model.RiskTier {
	switch {
	case risk >= HighRiskThreshold:
		return model.TierHigh
	case risk >= MediumRiskThreshold:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// NodeSize returns the graph node radius for a projected LTV,
// ltv/100*30+20 clamped to [MinNodeSize, MaxNodeSize].
func NodeSize(ltv float64) float64 {
	size := ltv/100*sizePerUnit + baseSize
	if math.IsNaN(size) || size < MinNodeSize {
		return MinNodeSize
	}
	if size > MaxNodeSize {
		return MaxNodeSize
	}
	return size
}

// RowHighlight reports whether a table row is "high risk and high value".
func RowHighlight(risk, ltv float64) bool {
	return risk >= HighlightRisk && ltv >= HighlightLTV
}

var printer = message.NewPrinter(language.English)

// Tooltip renders the hover text of a graph node, e.g.
// "Acme<br>Risk: 0.20<br>LTV: $1,234.56".
func Tooltip(name string, risk, ltv float64) string {
	return printer.Sprintf("%s<br>Risk: %.2f<br>LTV: $%.2f", name, risk, ltv)
}

// FormatCurrency renders v as dollars with thousands separators and cents.
func FormatCurrency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}
