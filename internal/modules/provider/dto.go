package provider

// UpdateFlagsRequest toggles the admin-controlled routing flags. Nil
// fields are left unchanged.
type UpdateFlagsRequest struct {
	Verified *bool `json:"verified,omitempty"`
	Active   *bool `json:"active,omitempty"`
	Featured *bool `json:"featured,omitempty"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type CreatePlanRequest struct {
	ID           string  `json:"id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days" binding:"required,min=1"`
	Priority     int     `json:"priority,omitempty"`
}
