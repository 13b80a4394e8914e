package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// FieldError is a single failed constraint
type FieldError struct {
	Field string
	Tag   string
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	// report json names so messages match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// FieldErrors flattens a validation error into field/tag pairs. Errors that
// did not come from the validator are returned as a single entry with an
// empty tag.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Tag: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out
}

// Describe renders a field error as a short human readable reason
func (fe FieldError) Describe() string {
	switch fe.Tag {
	case "required":
		return "is required"
	case "min", "gte":
		return "is below the minimum"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag)
	}
}
