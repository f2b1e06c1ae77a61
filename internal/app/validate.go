package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rk-textiles/internal/core"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so errors match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a struct-tag validation failure. It unwraps both to the first
// failing field's *core.ValidationError and to the full validator error list.
type requestError struct {
	first  *core.ValidationError
	fields validator.ValidationErrors
}

func (e *requestError) Error() string   { return e.first.Error() }
func (e *requestError) Unwrap() []error { return []error{e.first, e.fields} }

// validateRequest runs struct-tag validation and reports the first failure as a *core.ValidationError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}
	fe := verrs[0]
	return &requestError{
		first:  &core.ValidationError{Field: fe.Field(), Message: describe(fe)},
		fields: verrs,
	}
}

// ValidationDetails maps every failing request field to its message. It is nil
// for errors that did not come from request validation.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
