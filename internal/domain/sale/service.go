package sale

import "context"

// Service defines the interface for sale business logic
type Service interface {
	// Create records a sale; the total is derived, never taken from input
	Create(ctx context.Context, sale *Sale) error

	// Get retrieves a sale owned by userID
	Get(ctx context.Context, userID, id string) (*Sale, error)

	// List retrieves sales with filters and pagination
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Sale, int64, error)

	// Update applies a partial edit and re-derives the total
	Update(ctx context.Context, userID, id string, update Update) (*Sale, error)

	// Delete removes a sale
	Delete(ctx context.Context, userID, id string) error
}
