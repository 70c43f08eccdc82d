package billing

import "time"

// Event is a verified billing provider notification. The set of
// implementations is closed; unknown provider kinds arrive as Ignored.
type Event interface {
	EventID() string
	OccurredAt() time.Time
	Kind() string
	isEvent()
}

// Envelope carries the provider's event id and creation time
type Envelope struct {
	ID      string
	Created time.Time
}

func (e Envelope) EventID() string       { return e.ID }
func (e Envelope) OccurredAt() time.Time { return e.Created }
func (Envelope) isEvent()                {}

// CheckoutCompleted fires when a hosted checkout finishes
type CheckoutCompleted struct {
	Envelope
	UserID         string
	Plan           string
	CustomerID     string
	SubscriptionID string
}

func (CheckoutCompleted) Kind() string { return "checkout.session.completed" }

// SubscriptionCreated fires when the provider opens a subscription
type SubscriptionCreated struct {
	Envelope
	UserID         string
	Plan           string
	CustomerID     string
	SubscriptionID string
	Status         string
}

func (SubscriptionCreated) Kind() string { return "customer.subscription.created" }

// SubscriptionUpdated carries a status change of an existing subscription
type SubscriptionUpdated struct {
	Envelope
	UserID            string
	CustomerID        string
	SubscriptionID    string
	Status            string
	CancelAtPeriodEnd bool
}

func (SubscriptionUpdated) Kind() string { return "customer.subscription.updated" }

// SubscriptionDeleted fires when a subscription ends
type SubscriptionDeleted struct {
	Envelope
	UserID         string
	CustomerID     string
	SubscriptionID string
}

func (SubscriptionDeleted) Kind() string { return "customer.subscription.deleted" }

// InvoicePaymentSucceeded fires on a paid invoice. Invoices carry no user
// metadata; the user is found through the subscription.
type InvoicePaymentSucceeded struct {
	Envelope
	CustomerID     string
	SubscriptionID string
	PaidAt         time.Time
}

func (InvoicePaymentSucceeded) Kind() string { return "invoice.payment_succeeded" }

// InvoicePaymentFailed fires when collecting an invoice fails
type InvoicePaymentFailed struct {
	Envelope
	CustomerID     string
	SubscriptionID string
}

func (InvoicePaymentFailed) Kind() string { return "invoice.payment_failed" }

// Ignored is any provider event kind without a handler
type Ignored struct {
	Envelope
	Type string
}

func (e Ignored) Kind() string { return e.Type }

// Outcome describes what applying an event did
type Outcome string

// Outcomes
const (
	OutcomeApplied Outcome = "applied"
	OutcomeStale   Outcome = "stale"
	OutcomeIgnored Outcome = "ignored"
	OutcomeDropped Outcome = "dropped"
	OutcomeFailed  Outcome = "failed"
)
