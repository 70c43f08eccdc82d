package calendar

import (
	"context"
	"time"
)

// Service defines the interface for calendar business logic
type Service interface {
	Create(ctx context.Context, event *Event) error
	Get(ctx context.Context, userID, id string) (*Event, error)
	List(ctx context.Context, userID string, filter Filter) ([]*Event, error)
	Update(ctx context.Context, userID, id string, update Update) (*Event, error)
	Delete(ctx context.Context, userID, id string) error

	// Upcoming returns the next events starting at or after now
	Upcoming(ctx context.Context, userID string, now time.Time) ([]*Event, error)

	// Today returns the events starting on now's calendar day
	Today(ctx context.Context, userID string, now time.Time) ([]*Event, error)
}
