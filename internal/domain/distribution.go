package domain

import "time"

type DistributionStatus string

const (
	DistributionSent      DistributionStatus = "sent"
	DistributionViewed    DistributionStatus = "viewed"
	DistributionResponded DistributionStatus = "responded"
	DistributionIgnored   DistributionStatus = "ignored"
)

// Distribution records one delivery of a lead to one provider. The
// composite unique index is the system's concurrency safety net: at most
// one row ever exists per (lead, provider) pair.
type Distribution struct {
	ID         string             `json:"id" gorm:"primaryKey"`
	LeadID     int64              `json:"lead_id" gorm:"uniqueIndex:idx_distributions_lead_provider"`
	ProviderID int64              `json:"provider_id" gorm:"uniqueIndex:idx_distributions_lead_provider"`
	Status     DistributionStatus `json:"status" gorm:"default:'sent';index"`

	SentAt      time.Time  `json:"sent_at"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	ResponseMessage string   `json:"response_message,omitempty" gorm:"type:text"`
	QuotedPrice     *float64 `json:"quoted_price,omitempty"`

	// Idempotency markers for the notification collaborator.
	EmailSent    bool `json:"email_sent" gorm:"default:false"`
	SMSSent      bool `json:"sms_sent" gorm:"default:false"`
	InAppSent    bool `json:"in_app_sent" gorm:"default:false"`
	ResponseSent bool `json:"response_sent" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lead     *Lead     `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
	Provider *Provider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

// Terminal reports whether the record accepts no further transitions
// other than the provider-response override.
func (d *Distribution) Terminal() bool {
	return d.Status == DistributionResponded || d.Status == DistributionIgnored
}
