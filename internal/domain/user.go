package domain

import "time"

type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleProvider  UserRole = "provider"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"index"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated caller, resolved once at the API boundary.
// ProviderID is zero unless the user owns a provider profile.
type Actor struct {
	UserID     int64
	Role       UserRole
	ProviderID int64
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsProvider() bool {
	return a.Role == RoleProvider && a.ProviderID != 0
}
