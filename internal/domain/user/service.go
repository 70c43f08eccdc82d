package user

import "context"

// Service defines the interface for account business logic
type Service interface {
	// Register opens a new basic-plan account
	Register(ctx context.Context, in RegisterInput) (*User, error)

	// Authenticate checks credentials and stamps the last login
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// UpdateProfile applies profile edits
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*User, error)

	// ChangePassword replaces the password after checking the current one
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
}
