package style

import "github.com/alfredjeanlab/leadcommander/internal/model"

// RowStyle is the table decoration of one lead.
type RowStyle struct {
	Tier      model.RiskTier `json:"tier"`
	Highlight bool           `json:"highlight"`
}

// Decorate computes the row style of a lead. Missing risk and LTV read as
// zero, so a row lacking either figure is never highlighted. This differs
// from the graph, where a missing LTV defaults to 100.
func Decorate(l model.Lead) (RowStyle, error) {
	risk, err := l.FloatOr(model.FieldRiskScore, 0)
	if err != nil {
		return RowStyle{}, err
	}
	ltv, err := l.FloatOr(model.FieldProjectedLTV, 0)
	if err != nil {
		return RowStyle{}, err
	}
	return RowStyle{Tier: ColorTier(risk), Highlight: RowHighlight(risk, ltv)}, nil
}
