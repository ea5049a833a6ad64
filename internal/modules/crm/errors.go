package crm

import "errors"

var (
	ErrInvalidKind    = errors.New("unknown interaction kind")
	ErrNotDistributee = errors.New("lead was not distributed to this provider")
	ErrValidation     = errors.New("invalid crm input")
)
