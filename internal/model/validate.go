package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// InvalidRecordError reports a lead whose field holds a value of the wrong
// type, e.g. a string where a number is expected. It is the only failure
// the filter pipeline and graph builder surface; the caller decides whether
// to drop the record or abort.
type InvalidRecordError struct {
	Index  int // position in the collection, -1 when unknown
	ID     string
	Field  string
	Value  any
	Reason string
}

func (e *InvalidRecordError) Error() string {
	var b strings.Builder
	b.WriteString("invalid record")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.ID != "" {
		fmt.Fprintf(&b, " (id %s)", e.ID)
	}
	fmt.Fprintf(&b, ": %s %s, got %T %v", e.Field, e.Reason, e.Value, e.Value)
	return b.String()
}

// numericFields and friends list the recognized fields by expected type.
var (
	numericFields = []string{FieldScore, FieldWinProbability, FieldRiskScore, FieldProjectedLTV}
	stringFields  = []string{FieldName, FieldCompany, FieldEmail, FieldRecommendedAction, FieldCoachingTip}
	boolFields    = []string{FieldMarketSignalDetected}
)

// ValidateLead checks the recognized fields of a lead for type violations.
// Unknown fields and missing fields are always accepted. It returns a
// *ValidationError listing every bad field, or nil.
func ValidateLead(l Lead) error {
	var ve ValidationError

	// Id: string or number.
	if v, ok := l[FieldID]; ok && v != nil {
		if _, isStr := v.(string); !isStr {
			if _, isNum := toFloat(v); !isNum {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   FieldID,
					Message: fmt.Sprintf("must be a string or number, got %T", v),
				})
			}
		}
	}

	for _, f := range numericFields {
		if _, _, err := l.Float(f); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: f, Message: "must be a number"})
		}
	}
	for _, f := range stringFields {
		if _, _, err := l.String(f); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: f, Message: "must be a string"})
		}
	}
	for _, f := range boolFields {
		if _, _, err := l.Bool(f); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: f, Message: "must be a boolean"})
		}
	}

	// Projected LTV is a monetary value.
	if ltv, present, err := l.Float(FieldProjectedLTV); err == nil && present && ltv < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   FieldProjectedLTV,
			Message: fmt.Sprintf("must be non-negative, got %v", ltv),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateLeads validates every lead and prefixes field names with the
// record index ("[2].score"). It returns nil when all leads are valid.
func ValidateLeads(leads []Lead) error {
	var ve ValidationError
	for i, l := range leads {
		err := ValidateLead(l)
		if err == nil {
			continue
		}
		for _, fe := range err.(*ValidationError).Errors {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("[%d].%s", i, fe.Field),
				Message: fe.Message,
			})
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
