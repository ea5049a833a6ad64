package distribution

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrDistributionNotFound = errors.New("distribution not found")
	ErrNotDistributee       = errors.New("distribution belongs to another provider")
	ErrAlreadyDistributed   = errors.New("provider already received this lead")
)

// ValidationError reports malformed selector or response input. IDs carries
// the offending provider ids when the failure concerns an explicit list.
type ValidationError struct {
	Field   string
	Message string
	IDs     []int64
}

func (e *ValidationError) Error() string {
	if len(e.IDs) > 0 {
		parts := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			parts[i] = fmt.Sprintf("%d", id)
		}
		return fmt.Sprintf("%s: %s [%s]", e.Field, e.Message, strings.Join(parts, ", "))
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func validationErr(field, message string, ids ...int64) *ValidationError {
	return &ValidationError{Field: field, Message: message, IDs: ids}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
