package lead

import (
	"time"

	"rihla/internal/domain"
)

// CreateLeadRequest accepts all three lead kinds. Package and service
// leads name exactly one target; custom leads name none and rely on the
// free-text fields for routing.
type CreateLeadRequest struct {
	Kind string `json:"kind" binding:"required,oneof=package service custom"`

	PackageID *int64 `json:"package_id,omitempty"`
	ServiceID *int64 `json:"service_id,omitempty"`

	ContactName  string `json:"contact_name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	ContactPhone string `json:"contact_phone" binding:"required"`

	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	PartySize     int        `json:"party_size,omitempty"`
	Budget        string     `json:"budget,omitempty"`
	DepartureCity string     `json:"departure_city,omitempty"`
	HotelCategory string     `json:"hotel_category,omitempty"`

	SpecialRequirements string            `json:"special_requirements,omitempty"`
	CustomMessage       string            `json:"custom_message,omitempty"`
	SelectedServices    map[string]string `json:"selected_services,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=contacted converted rejected"`
}

type ListQuery struct {
	Status string `form:"status"`
	Kind   string `form:"kind"`
	Budget string `form:"budget"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// Stats is the admin funnel view. Rates are rounded to two decimals and
// zero when no leads exist.
type Stats struct {
	Total          int64                       `json:"total"`
	ByStatus       map[domain.LeadStatus]int64 `json:"by_status"`
	ConversionRate float64                     `json:"conversion_rate"`
	ResponseRate   float64                     `json:"response_rate"`
}
