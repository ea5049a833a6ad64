package domain

import "time"

type BusinessType string

const (
	BusinessUmrahPackages BusinessType = "umrah-packages"
	BusinessHajjPackage   BusinessType = "hajj-package"
	BusinessAgency        BusinessType = "agency"
	BusinessIndividual    BusinessType = "individual"
	BusinessCompany       BusinessType = "company"
	BusinessVisa          BusinessType = "visa"
	BusinessHotels        BusinessType = "hotels"
	BusinessTransport     BusinessType = "transport"
	BusinessFood          BusinessType = "food"
	BusinessLaundry       BusinessType = "laundry"
	BusinessUmrahGuide    BusinessType = "umrah-guide"
	BusinessUmrahKit      BusinessType = "umrah-kit"
	BusinessAirTicket     BusinessType = "air-ticket-group-fare"
	BusinessZamzamWater   BusinessType = "jam-jam-water"
)

func AllBusinessTypes() []BusinessType {
	return []BusinessType{
		BusinessUmrahPackages, BusinessHajjPackage, BusinessAgency,
		BusinessIndividual, BusinessCompany, BusinessVisa, BusinessHotels,
		BusinessTransport, BusinessFood, BusinessLaundry, BusinessUmrahGuide,
		BusinessUmrahKit, BusinessAirTicket, BusinessZamzamWater,
	}
}

func (b BusinessType) Valid() bool {
	for _, t := range AllBusinessTypes() {
		if b == t {
			return true
		}
	}
	return false
}

// Provider is a business entity eligible to receive leads.
type Provider struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	UserID       int64        `json:"user_id" gorm:"uniqueIndex"`
	CompanyName  string       `json:"company_name"`
	BusinessType BusinessType `json:"business_type" gorm:"index"`
	Verified     bool         `json:"verified" gorm:"default:false"`
	Active       bool         `json:"active" gorm:"default:true"`
	Featured     bool         `json:"featured" gorm:"default:false"`
	Rating       float64      `json:"rating" gorm:"default:0"`
	BookingCount int          `json:"booking_count" gorm:"default:0"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:ProviderID"`
}

// Eligible reports whether the provider can receive leads at all.
func (p *Provider) Eligible() bool {
	return p.Active && p.Verified
}

// HasActiveSubscription reports whether any loaded subscription is current.
func (p *Provider) HasActiveSubscription() bool {
	for i := range p.Subscriptions {
		if p.Subscriptions[i].IsActive() {
			return true
		}
	}
	return false
}

// PremiumCandidate is a provider joined with its best active paid plan,
// used by the subscription-ordered distribution path.
type PremiumCandidate struct {
	Provider     Provider
	PlanPriority int
	SubscribedAt time.Time
}
