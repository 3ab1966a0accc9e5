package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Recognized lead fields. Any other key is carried through untouched.
const (
	FieldID                   = "id"
	FieldName                 = "name"
	FieldCompany              = "company"
	FieldEmail                = "email"
	FieldScore                = "score"
	FieldWinProbability       = "win_probability"
	FieldRiskScore            = "risk_score"
	FieldProjectedLTV         = "projected_ltv"
	FieldMarketSignalDetected = "market_signal_detected"
	FieldRecommendedAction    = "recommended_action"
	FieldCoachingTip          = "coaching_tip"
)

// Lead is a single sales lead as a field name -> value mapping.
// Every field is optional; a missing field means "not applicable".
// Leads are treated as immutable once loaded: collections are replaced
// wholesale, never edited record by record.
type Lead map[string]any

// ID returns the canonical string form of the lead's id.
// The second result is false when the lead has no id.
func (l Lead) ID() (string, bool) {
	v, ok := l[FieldID]
	if !ok || v == nil {
		return "", false
	}
	return FormatID(v), true
}

// Name returns the lead's name, or "" when absent or not a string.
func (l Lead) Name() string {
	s, _ := l[FieldName].(string)
	return s
}

// Float reads a numeric field. present is false when the field is missing
// or null. A present value that is not a number yields *InvalidRecordError.
func (l Lead) Float(field string) (value float64, present bool, err error) {
	v, ok := l[field]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, true, l.invalid(field, v, "must be a number")
	}
	return f, true, nil
}

// FloatOr reads a numeric field, returning def when the field is absent.
func (l Lead) FloatOr(field string, def float64) (float64, error) {
	f, present, err := l.Float(field)
	if err != nil {
		return 0, err
	}
	if !present {
		return def, nil
	}
	return f, nil
}

// Bool reads a boolean field. A present non-boolean yields *InvalidRecordError.
func (l Lead) Bool(field string) (value bool, present bool, err error) {
	v, ok := l[field]
	if !ok || v == nil {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, l.invalid(field, v, "must be a boolean")
	}
	return b, true, nil
}

// String reads a string field. A present non-string yields *InvalidRecordError.
func (l Lead) String(field string) (value string, present bool, err error) {
	v, ok := l[field]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, l.invalid(field, v, "must be a string")
	}
	return s, true, nil
}

// Clone returns a shallow copy of the lead. Nested values are shared.
func (l Lead) Clone() Lead {
	c := make(Lead, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

func (l Lead) invalid(field string, value any, reason string) *InvalidRecordError {
	id, _ := l.ID()
	return &InvalidRecordError{Index: -1, ID: id, Field: field, Value: value, Reason: reason}
}

// CloneLeads returns a new slice holding clones of every lead.
func CloneLeads(leads []Lead) []Lead {
	out := make([]Lead, len(leads))
	for i, l := range leads {
		out[i] = l.Clone()
	}
	return out
}

// FormatID converts an id value to its canonical string form.
// Integral numbers lose their fractional part so that 1, int64(1), 1.0 and
// json.Number("1") all map to "1".
func FormatID(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := x.Float64(); err == nil {
			return formatFloatID(f)
		}
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return formatFloatID(float64(x))
	case float64:
		return formatFloatID(x)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloatID(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}
