package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
)

// ValidSignature is the only signature FakeProvider accepts
const ValidSignature = "t=1,v1=valid"

// FakeProvider is an in-memory billing.Provider
type FakeProvider struct {
	mu sync.Mutex

	Checkouts     []billing.CheckoutParams
	Portals       []string
	Canceled      []string
	Subscriptions map[string]*billing.Subscription
	// Latest maps a customer to their newest subscription
	Latest map[string]*billing.Subscription

	// Event is returned by ParseWebhook for a valid signature
	Event billing.Event
	// DecodeError is returned by ParseWebhook for a valid signature when set
	DecodeError error

	CheckoutError error
	LookupError   error
	CancelError   error
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Subscriptions: make(map[string]*billing.Subscription),
		Latest:        make(map[string]*billing.Subscription),
	}
}

func (f *FakeProvider) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	if f.CheckoutError != nil {
		return nil, f.CheckoutError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Checkouts = append(f.Checkouts, params)
	id := fmt.Sprintf("cs_test_%d", len(f.Checkouts))
	return &billing.CheckoutSession{ID: id, URL: "https://checkout.example.test/" + id}, nil
}

func (f *FakeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Portals = append(f.Portals, customerID)
	return "https://billing.example.test/portal/" + customerID, nil
}

func (f *FakeProvider) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	if f.CancelError != nil {
		return nil, f.CancelError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Canceled = append(f.Canceled, subscriptionID)
	sub, ok := f.Subscriptions[subscriptionID]
	if !ok {
		sub = &billing.Subscription{ID: subscriptionID, Status: "active"}
		f.Subscriptions[subscriptionID] = sub
	}
	sub.CancelAtPeriodEnd = true
	cp := *sub
	return &cp, nil
}

func (f *FakeProvider) LatestSubscription(ctx context.Context, customerID string) (*billing.Subscription, error) {
	if f.LookupError != nil {
		return nil, f.LookupError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.Latest[customerID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *FakeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	if f.LookupError != nil {
		return nil, f.LookupError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", subscriptionID)
	}
	cp := *sub
	return &cp, nil
}

func (f *FakeProvider) ParseWebhook(payload []byte, signature string) (billing.Event, error) {
	if signature != ValidSignature {
		return nil, billing.ErrInvalidSignature
	}
	if f.DecodeError != nil {
		return nil, f.DecodeError
	}
	if f.Event == nil {
		return billing.Ignored{Type: "ping"}, nil
	}
	return f.Event, nil
}
