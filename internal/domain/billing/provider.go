package billing

import (
	"context"
	stderrors "errors"
	"time"
)

// ErrInvalidSignature is returned by ParseWebhook when the payload fails verification
var ErrInvalidSignature = stderrors.New("invalid webhook signature")

// CheckoutParams describes a hosted checkout for a subscription
type CheckoutParams struct {
	UserID     string
	Email      string
	CustomerID string
	Plan       string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a hosted checkout the client is redirected to
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Subscription is the provider's view of a subscription
type Subscription struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"-"`
	Status            string            `json:"status"`
	CurrentPeriodEnd  time.Time         `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool              `json:"cancelAtPeriodEnd"`
	Metadata          map[string]string `json:"-"`
}

// Metadata keys written on checkout sessions and subscriptions
const (
	MetadataUserID = "userId"
	MetadataPlan   = "plan"
)

// Provider is the billing provider's API surface
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error)

	// LatestSubscription returns the newest subscription of a customer, or nil if there is none
	LatestSubscription(ctx context.Context, customerID string) (*Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// ParseWebhook verifies the signature over the raw payload and decodes the event
	ParseWebhook(payload []byte, signature string) (Event, error)
}
