package expense

import "context"

// Repository defines the interface for expense data access
type Repository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, userID, id string) (*Expense, error)
	// List retrieves expenses newest first, with filters and pagination
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Expense, int64, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, userID, id string) error
}
