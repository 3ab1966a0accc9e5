package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// MaxLeadsPerRequest bounds lead arrays posted to stateless endpoints.
const MaxLeadsPerRequest = 10000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// filterRequest is the body of POST /v1/filter. Leads default to the
// configured source. Filters is merged onto the default state, so omitted
// fields stay unrestricted.
type filterRequest struct {
	Leads   []model.Lead       `json:"leads" validate:"omitempty,max=10000"`
	Filters *model.FilterPatch `json:"filters"`
}

// graphRequest is the body of POST /v1/graph. Relationships are inferred
// when omitted.
type graphRequest struct {
	Leads         []model.Lead          `json:"leads" validate:"required,max=10000"`
	Relationships model.RelationshipMap `json:"relationships"`
}

// formatValidationError turns the first validator failure into a short
// message naming the JSON field.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", field)
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s: must not exceed %s", field, e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
}
