// Package validator wraps go-playground struct validation, turning tag
// failures into field-keyed messages suitable for API error payloads.
package validator

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Fields maps each failing struct field to a human-readable reason.
type Fields map[string]string

func (f Fields) String() string {
	parts := make([]string, 0, len(f))
	for name, msg := range f {
		parts = append(parts, name+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Validate checks struct tags and returns one message per failing field,
// nil when the value is valid.
func Validate(v any) Fields {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(Fields)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = messageFor(fe)
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
