package domain

import "time"

// UmrahPackage is a provider-owned package offering (umrah or hajj).
type UmrahPackage struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	ProviderID    int64     `json:"provider_id" gorm:"index"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description" gorm:"type:text"`
	Price         float64   `json:"price"`
	DurationDays  int       `json:"duration_days"`
	HotelCategory string    `json:"hotel_category,omitempty"`
	DepartureCity string    `json:"departure_city,omitempty"`
	Active        bool      `json:"active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProviderService is a single provider-owned service offering (visa,
// transport, hotel booking and the like).
type ProviderService struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ProviderID  int64     `json:"provider_id" gorm:"index"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
