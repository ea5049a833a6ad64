package lead

import "errors"

var (
	ErrNotFound          = errors.New("lead not found")
	ErrForbidden         = errors.New("lead belongs to another user")
	ErrInvalidTransition = errors.New("invalid lead status transition")
	ErrTargetNotFound    = errors.New("referenced package or service not found")
	ErrValidation        = errors.New("invalid lead input")
)
