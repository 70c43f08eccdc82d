package expense

import "context"

// Service defines the interface for expense business logic
type Service interface {
	Create(ctx context.Context, expense *Expense) error
	Get(ctx context.Context, userID, id string) (*Expense, error)
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Expense, int64, error)
	Update(ctx context.Context, userID, id string, update Update) (*Expense, error)
	Delete(ctx context.Context, userID, id string) error
}
