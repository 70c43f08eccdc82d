package dto

import (
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	BusinessName       string     `json:"businessName"`
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	IsActive           bool       `json:"isActive"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// NewUserDTO maps a user to its API shape
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		BusinessName:       u.BusinessName,
		Plan:               u.Plan,
		SubscriptionStatus: u.EffectiveStatus(),
		IsActive:           u.IsActive,
		LastLogin:          u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

// UpdateProfileRequest represents a profile update; omitted fields are unchanged
type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName     *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	BusinessName *string `json:"businessName,omitempty" validate:"omitempty,min=1,max=100"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}
