package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
)

// webhookTolerance is how old a signed webhook timestamp may be
const webhookTolerance = 5 * time.Minute

// StripeProvider implements billing.Provider on the Stripe API
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a Stripe client. backends may be nil for the live API.
func NewStripeProvider(secretKey, webhookSecret string, backends *stripe.Backends) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in billing.CheckoutParams) (*billing.CheckoutSession, error) {
	metadata := map[string]string{
		billing.MetadataUserID: in.UserID,
		billing.MetadataPlan:   in.Plan,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(in.PriceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(in.Email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &billing.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (p *StripeProvider) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(true)}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return toSubscription(sub), nil
}

func (p *StripeProvider) LatestSubscription(ctx context.Context, customerID string) (*billing.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	it := p.api.Subscriptions.List(params)
	var latest *billing.Subscription
	if it.Next() {
		latest = toSubscription(it.Subscription())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return latest, nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return toSubscription(sub), nil
}

func toSubscription(s *stripe.Subscription) *billing.Subscription {
	out := &billing.Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		Metadata:          s.Metadata,
	}
	if s.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(s.CurrentPeriodEnd, 0)
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (billing.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrInvalidSignature, err)
	}
	return decodeEvent(event)
}

func decodeEvent(event stripe.Event) (billing.Event, error) {
	env := billing.Envelope{ID: event.ID, Created: time.Unix(event.Created, 0)}
	if event.Data == nil {
		return billing.Ignored{Envelope: env, Type: string(event.Type)}, nil
	}
	raw := event.Data.Raw

	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out := billing.CheckoutCompleted{
			Envelope: env,
			UserID:   session.Metadata[billing.MetadataUserID],
			Plan:     session.Metadata[billing.MetadataPlan],
		}
		if session.Customer != nil {
			out.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}
		return out, nil

	case "customer.subscription.created":
		sub, err := decodeSubscription(raw)
		if err != nil {
			return nil, err
		}
		return billing.SubscriptionCreated{
			Envelope:       env,
			UserID:         sub.Metadata[billing.MetadataUserID],
			Plan:           sub.Metadata[billing.MetadataPlan],
			CustomerID:     customerID(sub.Customer),
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
		}, nil

	case "customer.subscription.updated":
		sub, err := decodeSubscription(raw)
		if err != nil {
			return nil, err
		}
		return billing.SubscriptionUpdated{
			Envelope:          env,
			UserID:            sub.Metadata[billing.MetadataUserID],
			CustomerID:        customerID(sub.Customer),
			SubscriptionID:    sub.ID,
			Status:            string(sub.Status),
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		}, nil

	case "customer.subscription.deleted":
		sub, err := decodeSubscription(raw)
		if err != nil {
			return nil, err
		}
		return billing.SubscriptionDeleted{
			Envelope:       env,
			UserID:         sub.Metadata[billing.MetadataUserID],
			CustomerID:     customerID(sub.Customer),
			SubscriptionID: sub.ID,
		}, nil

	case "invoice.payment_succeeded":
		inv, err := decodeInvoice(raw)
		if err != nil {
			return nil, err
		}
		out := billing.InvoicePaymentSucceeded{
			Envelope:       env,
			CustomerID:     customerID(inv.Customer),
			SubscriptionID: invoiceSubscription(inv),
		}
		if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
			out.PaidAt = time.Unix(inv.StatusTransitions.PaidAt, 0)
		}
		return out, nil

	case "invoice.payment_failed":
		inv, err := decodeInvoice(raw)
		if err != nil {
			return nil, err
		}
		return billing.InvoicePaymentFailed{
			Envelope:       env,
			CustomerID:     customerID(inv.Customer),
			SubscriptionID: invoiceSubscription(inv),
		}, nil
	}

	return billing.Ignored{Envelope: env, Type: string(event.Type)}, nil
}

func decodeSubscription(raw json.RawMessage) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

func decodeInvoice(raw json.RawMessage) (*stripe.Invoice, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return &inv, nil
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func invoiceSubscription(inv *stripe.Invoice) string {
	if inv.Subscription == nil {
		return ""
	}
	return inv.Subscription.ID
}
