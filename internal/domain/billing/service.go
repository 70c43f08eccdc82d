package billing

import (
	"context"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
)

// Status is a user's subscription state, optionally with the provider's live view
type Status struct {
	Plan               string        `json:"plan"`
	SubscriptionStatus string        `json:"subscriptionStatus"`
	PlanUpdatedAt      *time.Time    `json:"planUpdatedAt,omitempty"`
	Subscription       *Subscription `json:"subscription,omitempty"`
}

// Service defines the subscription reconciler
type Service interface {
	// CreateCheckout opens a hosted checkout. It never changes local state.
	CreateCheckout(ctx context.Context, userID, plan, priceID string) (*CheckoutSession, error)

	// CreatePortal opens the provider's self-service portal
	CreatePortal(ctx context.Context, userID string) (string, error)

	GetStatus(ctx context.Context, userID string) (*Status, error)

	// CancelAtPeriodEnd schedules cancellation; the plan changes when the provider reports it
	CancelAtPeriodEnd(ctx context.Context, userID string) (*Subscription, error)

	// HandleWebhook verifies and applies one provider notification. Only a
	// signature failure is returned; processing failures are logged.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error)

	// Apply reconciles a verified event into the affected user record
	Apply(ctx context.Context, event Event) (Outcome, error)

	// SyncUser reconciles a user against the provider's latest subscription
	SyncUser(ctx context.Context, u *user.User) (bool, error)
}
