package domain

import "time"

type LeadKind string

const (
	LeadKindPackage LeadKind = "package"
	LeadKindService LeadKind = "service"
	LeadKindCustom  LeadKind = "custom"
)

type LeadStatus string

const (
	LeadPending   LeadStatus = "pending"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadRejected  LeadStatus = "rejected"
	LeadExpired   LeadStatus = "expired"
)

// LeadTTL is how long a lead stays open before the expiry sweep closes it.
const LeadTTL = 30 * 24 * time.Hour

// Priority levels stored on a lead once it is distributed.
const (
	LeadPriorityNormal  = 0
	LeadPriorityPremium = 1
)

// Terminal reports whether no further status transition may leave s.
func (s LeadStatus) Terminal() bool {
	return s == LeadConverted || s == LeadRejected || s == LeadExpired
}

// CanTransition enforces the forward-only lead state machine:
// pending → contacted → converted, with rejected/expired reachable from
// any non-terminal state.
func (s LeadStatus) CanTransition(to LeadStatus) bool {
	if s.Terminal() {
		return false
	}
	switch to {
	case LeadContacted:
		return s == LeadPending
	case LeadConverted:
		return s == LeadPending || s == LeadContacted
	case LeadRejected, LeadExpired:
		return true
	default:
		return false
	}
}

// Lead is a customer inquiry to be routed to matching providers.
type Lead struct {
	ID     int64    `json:"id" gorm:"primaryKey"`
	UserID int64    `json:"user_id" gorm:"index"`
	Kind   LeadKind `json:"kind" gorm:"index"`

	// Exactly one target is set unless Kind is custom, then neither.
	PackageID *int64 `json:"package_id,omitempty" gorm:"index"`
	ServiceID *int64 `json:"service_id,omitempty" gorm:"index"`

	ContactName  string `json:"contact_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"required"`

	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	PartySize     int        `json:"party_size" gorm:"default:1"`
	Budget        string     `json:"budget,omitempty"`
	DepartureCity string     `json:"departure_city,omitempty"`
	HotelCategory string     `json:"hotel_category,omitempty"`

	SpecialRequirements string            `json:"special_requirements,omitempty" gorm:"type:text"`
	CustomMessage       string            `json:"custom_message,omitempty" gorm:"type:text"`
	SelectedServices    map[string]string `json:"selected_services,omitempty" gorm:"serializer:json"`

	Distributed   bool       `json:"distributed" gorm:"default:false"`
	DistributedAt *time.Time `json:"distributed_at,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
	Status        LeadStatus `json:"status" gorm:"default:'pending';index"`
	Priority      int        `json:"priority" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired is derived, never stored: the expiry sweep persists the
// status change separately.
func (l *Lead) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}

// HasTarget reports whether a package or service reference is set.
func (l *Lead) HasTarget() bool {
	return l.PackageID != nil || l.ServiceID != nil
}
