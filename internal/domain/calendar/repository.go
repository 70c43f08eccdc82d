package calendar

import "context"

// Repository defines the interface for calendar data access
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, userID, id string) (*Event, error)
	// List retrieves events ordered by start ascending
	List(ctx context.Context, userID string, filter Filter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, userID, id string) error
}
