package domain

import "time"

type InteractionKind string

const (
	InteractionCall     InteractionKind = "call"
	InteractionEmail    InteractionKind = "email"
	InteractionSMS      InteractionKind = "sms"
	InteractionWhatsApp InteractionKind = "whatsapp"
	InteractionMeeting  InteractionKind = "meeting"
	InteractionOther    InteractionKind = "other"
)

func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionCall, InteractionEmail, InteractionSMS,
		InteractionWhatsApp, InteractionMeeting, InteractionOther:
		return true
	}
	return false
}

// Interaction is a provider's logged contact event with a lead. It is a
// CRM record only and never touches distribution state.
type Interaction struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	ProviderID int64           `json:"provider_id" gorm:"index"`
	LeadID     int64           `json:"lead_id" gorm:"index"`
	Kind       InteractionKind `json:"kind"`
	Notes      string          `json:"notes,omitempty" gorm:"type:text"`
	Successful bool            `json:"successful" gorm:"default:false"`

	FollowUpAt    *time.Time `json:"follow_up_at,omitempty" gorm:"index"`
	FollowUpNotes string     `json:"follow_up_notes,omitempty"`
	ReminderSent  bool       `json:"reminder_sent" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadNote is a provider's free-text annotation on a lead. Private notes
// are visible only to the author.
type LeadNote struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ProviderID int64     `json:"provider_id" gorm:"index"`
	LeadID     int64     `json:"lead_id" gorm:"index"`
	Body       string    `json:"body" gorm:"type:text" validate:"required"`
	Private    bool      `json:"private" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
