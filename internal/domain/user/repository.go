package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user; a duplicate email is a conflict
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetBySubscriptionID retrieves the user holding a billing subscription
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*User, error)

	// Update writes the user if its Version still matches the stored row,
	// then bumps Version. A stale Version is a conflict.
	Update(ctx context.Context, user *User) error

	// ListWithBillingCustomer pages through users that have a billing customer reference
	ListWithBillingCustomer(ctx context.Context, limit, offset int) ([]*User, error)
}
