package sale

import "context"

// Repository defines the interface for sale data access
type Repository interface {
	// Create stores a new sale
	Create(ctx context.Context, sale *Sale) error

	// GetByID retrieves a sale owned by userID
	GetByID(ctx context.Context, userID, id string) (*Sale, error)

	// List retrieves sales newest first, with filters and pagination
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Sale, int64, error)

	// Update overwrites a sale owned by sale.UserID
	Update(ctx context.Context, sale *Sale) error

	// Delete removes a sale owned by userID
	Delete(ctx context.Context, userID, id string) error
}
