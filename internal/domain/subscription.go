package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Plan defines a subscription tier for providers. Priority > 0 marks the
// plan as premium: its holders are served by the premium assignment sweep.
type Plan struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	Priority     int       `json:"priority" gorm:"default:0"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Plan) TableName() string { return "plans" }

type Subscription struct {
	ID         string             `json:"id" gorm:"primaryKey"`
	ProviderID int64              `json:"provider_id" gorm:"index"`
	PlanID     string             `json:"plan_id"`
	Status     SubscriptionStatus `json:"status" gorm:"default:'active'"`
	StartedAt  time.Time          `json:"started_at"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`

	Plan Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

func (s *Subscription) IsExpired() bool {
	if s.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*s.ExpiresAt)
}

// IsActive checks if the subscription is currently usable.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive && !s.IsExpired()
}
