package auth

import "rihla/internal/domain"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone,omitempty"`
}

// RegisterProviderRequest creates the user account and the provider
// profile in one step. New providers start unverified and do not receive
// leads until an admin verifies them.
type RegisterProviderRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone,omitempty"`

	CompanyName  string `json:"company_name" binding:"required"`
	BusinessType string `json:"business_type" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string           `json:"token"`
	User     *domain.User     `json:"user"`
	Provider *domain.Provider `json:"provider,omitempty"`
}
