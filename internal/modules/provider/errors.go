package provider

import "errors"

var (
	ErrNotFound     = errors.New("provider not found")
	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanInactive = errors.New("plan is not active")
)
