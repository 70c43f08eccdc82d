package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
)

const billingProviderName = "Stripe"

// BillingService implements billing.Service
type BillingService struct {
	users       user.Repository
	provider    billing.Provider
	config      config.BillingConfig
	frontendURL string
	logger      *logger.Logger
}

// NewBillingService creates a new subscription reconciler
func NewBillingService(
	users user.Repository,
	provider billing.Provider,
	cfg config.BillingConfig,
	frontendURL string,
	log *logger.Logger,
) billing.Service {
	return &BillingService{
		users:       users,
		provider:    provider,
		config:      cfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      log,
	}
}

// CreateCheckout opens a hosted checkout for plan
func (s *BillingService) CreateCheckout(ctx context.Context, userID, plan, priceID string) (*billing.CheckoutSession, error) {
	if !user.IsValidPlan(plan) {
		return nil, fieldError("plan", "oneof", "plan must be one of [basic pro]")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Plan == user.PlanPro && plan == user.PlanPro {
		return nil, errors.Conflict("User already has Pro plan")
	}

	if priceID == "" {
		priceID = s.config.PriceFor(plan)
	}
	if priceID == "" {
		return nil, fieldError("priceId", "required", "priceId is required")
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutParams{
		UserID:     u.ID,
		Email:      u.Email,
		CustomerID: u.BillingCustomerID,
		Plan:       plan,
		PriceID:    priceID,
		SuccessURL: s.frontendURL + "/app/profile?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/app/profile?canceled=true",
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create checkout session")
		return nil, errors.ProviderAPIError(billingProviderName, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    u.ID,
		"plan":       plan,
		"session_id": session.ID,
	}).Info("Checkout session created")

	return session, nil
}

// CreatePortal opens the billing portal for the user's customer
func (s *BillingService) CreatePortal(ctx context.Context, userID string) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.BillingCustomerID == "" {
		return "", errors.BadRequest("No billing account found")
	}

	url, err := s.provider.CreatePortalSession(ctx, u.BillingCustomerID, s.frontendURL+"/app/profile")
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create portal session")
		return "", errors.ProviderAPIError(billingProviderName, err)
	}
	return url, nil
}

// GetStatus returns the local plan and, best effort, the provider's latest subscription
func (s *BillingService) GetStatus(ctx context.Context, userID string) (*billing.Status, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &billing.Status{
		Plan:               u.Plan,
		SubscriptionStatus: u.EffectiveStatus(),
		PlanUpdatedAt:      u.PlanUpdatedAt,
	}
	if u.BillingCustomerID == "" {
		return status, nil
	}

	sub, err := s.provider.LatestSubscription(ctx, u.BillingCustomerID)
	if err != nil {
		s.logger.WithError(err).With("user_id", userID).Warn("Subscription lookup failed, returning local state")
		return status, nil
	}
	status.Subscription = sub
	return status, nil
}

// CancelAtPeriodEnd asks the provider to end the subscription at period end
func (s *BillingService) CancelAtPeriodEnd(ctx context.Context, userID string) (*billing.Subscription, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.BillingSubscriptionID == "" {
		return nil, errors.BadRequest("No active subscription found")
	}

	sub, err := s.provider.CancelAtPeriodEnd(ctx, u.BillingSubscriptionID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel subscription")
		return nil, errors.ProviderAPIError(billingProviderName, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"subscription_id": u.BillingSubscriptionID,
	}).Info("Subscription set to cancel at period end")

	return sub, nil
}

// HandleWebhook verifies a provider notification and applies it
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (billing.Outcome, error) {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if stderrors.Is(err, billing.ErrInvalidSignature) {
			metrics.RecordWebhookEvent("unverified", "rejected")
			s.logger.WithError(err).Warn("Rejected webhook with invalid signature")
			return "", errors.InvalidSignature(err)
		}
		metrics.RecordWebhookEvent("undecodable", "rejected")
		s.logger.WithError(err).Warn("Rejected webhook with undecodable payload")
		return "", errors.BadRequest("Invalid webhook payload")
	}

	outcome, err := s.Apply(ctx, event)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.EventID(),
			"event_kind": event.Kind(),
		}).Error("Failed to apply webhook event")
	}
	return outcome, nil
}

// Apply reconciles one verified event into the affected user
func (s *BillingService) Apply(ctx context.Context, event billing.Event) (billing.Outcome, error) {
	var (
		outcome billing.Outcome
		err     error
	)

	switch e := event.(type) {
	case billing.CheckoutCompleted:
		outcome, err = s.reconcile(ctx, event, e.UserID, e.CustomerID, e.SubscriptionID, func(u *user.User) {
			if user.IsValidPlan(e.Plan) {
				u.Plan = e.Plan
			}
			u.SubscriptionStatus = user.StatusActive
			u.PlanUpdatedAt = eventTime(event)
		})

	case billing.SubscriptionCreated:
		outcome, err = s.reconcile(ctx, event, e.UserID, e.CustomerID, e.SubscriptionID, func(u *user.User) {
			if user.IsValidPlan(e.Plan) {
				u.Plan = e.Plan
			}
			u.SubscriptionStatus = e.Status
			u.PlanUpdatedAt = eventTime(event)
		})

	case billing.SubscriptionUpdated:
		outcome, err = s.reconcile(ctx, event, e.UserID, e.CustomerID, e.SubscriptionID, func(u *user.User) {
			u.SubscriptionStatus = e.Status
		})

	case billing.SubscriptionDeleted:
		outcome, err = s.reconcile(ctx, event, e.UserID, e.CustomerID, e.SubscriptionID, func(u *user.User) {
			u.Plan = user.PlanBasic
			u.SubscriptionStatus = user.StatusCanceled
			u.PlanUpdatedAt = eventTime(event)
		})

	case billing.InvoicePaymentSucceeded:
		outcome, err = s.reconcile(ctx, event, s.invoiceOwner(ctx, e.SubscriptionID), e.CustomerID, e.SubscriptionID, func(u *user.User) {
			u.SubscriptionStatus = user.StatusActive
			paid := e.PaidAt
			if paid.IsZero() {
				paid = event.OccurredAt()
			}
			u.LastPaymentAt = &paid
		})

	case billing.InvoicePaymentFailed:
		outcome, err = s.reconcile(ctx, event, s.invoiceOwner(ctx, e.SubscriptionID), e.CustomerID, e.SubscriptionID, func(u *user.User) {
			u.SubscriptionStatus = user.StatusPastDue
		})

	case billing.Ignored:
		s.logger.With("event_kind", e.Type).Debug("Ignoring billing event")
		outcome = billing.OutcomeIgnored

	default:
		s.logger.With("event_kind", event.Kind()).Warn("Unhandled billing event")
		outcome = billing.OutcomeIgnored
	}

	metrics.RecordWebhookEvent(event.Kind(), string(outcome))
	return outcome, err
}

// invoiceOwner reads the user id from the invoice's subscription metadata.
// An empty result falls back to the stored subscription ref.
func (s *BillingService) invoiceOwner(ctx context.Context, subscriptionID string) string {
	if subscriptionID == "" {
		return ""
	}
	sub, err := s.provider.GetSubscription(ctx, subscriptionID)
	if err != nil {
		s.logger.WithError(err).With("subscription_id", subscriptionID).Warn("Subscription lookup failed, resolving by reference")
		return ""
	}
	return sub.Metadata[billing.MetadataUserID]
}

func eventTime(event billing.Event) *time.Time {
	at := event.OccurredAt()
	if at.IsZero() {
		at = time.Now()
	}
	return &at
}

// reconcile runs a compare-and-swap update of the event's user. Events older
// than the last applied one only fill missing references.
func (s *BillingService) reconcile(
	ctx context.Context,
	event billing.Event,
	userID, customerID, subscriptionID string,
	apply func(u *user.User),
) (billing.Outcome, error) {
	outcome := billing.OutcomeApplied
	var planChanged bool

	err := retryOnConflict(ctx, func() error {
		u, err := s.resolveUser(ctx, userID, subscriptionID)
		if err != nil {
			return err
		}

		at := event.OccurredAt()
		stale := u.BillingEventAt != nil && at.Before(*u.BillingEventAt)
		refsChanged := fillRefs(u, customerID, subscriptionID, !stale)

		if stale {
			outcome = billing.OutcomeStale
			if !refsChanged {
				return nil
			}
			return s.users.Update(ctx, u)
		}

		outcome = billing.OutcomeApplied
		before := u.Plan
		apply(u)
		if u.EnforceEntitlement() {
			u.PlanUpdatedAt = eventTime(event)
		}
		planChanged = u.Plan != before
		u.BillingEventAt = &at
		return s.users.Update(ctx, u)
	})

	if errors.Is(err, errors.ErrCodeNotFound) {
		s.logger.WithFields(map[string]interface{}{
			"event_id":   event.EventID(),
			"event_kind": event.Kind(),
			"user_id":    userID,
		}).Warn("Dropping billing event for unknown user")
		return billing.OutcomeDropped, nil
	}
	if err != nil {
		return billing.OutcomeFailed, err
	}

	s.logger.WithFields(map[string]interface{}{
		"event_id":     event.EventID(),
		"event_kind":   event.Kind(),
		"user_id":      userID,
		"outcome":      outcome,
		"plan_changed": planChanged,
	}).Info("Billing event reconciled")

	return outcome, nil
}

func (s *BillingService) resolveUser(ctx context.Context, userID, subscriptionID string) (*user.User, error) {
	switch {
	case userID != "":
		return s.users.GetByID(ctx, userID)
	case subscriptionID != "":
		return s.users.GetBySubscriptionID(ctx, subscriptionID)
	default:
		return nil, errors.NotFound("User")
	}
}

// fillRefs records billing references. With overwrite unset only empty fields are filled.
func fillRefs(u *user.User, customerID, subscriptionID string, overwrite bool) bool {
	changed := false
	if customerID != "" && u.BillingCustomerID != customerID && (overwrite || u.BillingCustomerID == "") {
		u.BillingCustomerID = customerID
		changed = true
	}
	if subscriptionID != "" && u.BillingSubscriptionID != subscriptionID && (overwrite || u.BillingSubscriptionID == "") {
		u.BillingSubscriptionID = subscriptionID
		changed = true
	}
	return changed
}

// SyncUser pulls the customer's latest subscription and mirrors it locally
func (s *BillingService) SyncUser(ctx context.Context, u *user.User) (bool, error) {
	if u.BillingCustomerID == "" {
		return false, nil
	}

	sub, err := s.provider.LatestSubscription(ctx, u.BillingCustomerID)
	if err != nil {
		return false, errors.ProviderAPIError(billingProviderName, err)
	}

	changed := false
	err = retryOnConflict(ctx, func() error {
		current, err := s.users.GetByID(ctx, u.ID)
		if err != nil {
			return err
		}
		changed = mirrorSubscription(current, sub)
		if !changed {
			return nil
		}
		return s.users.Update(ctx, current)
	})
	if err != nil {
		return false, err
	}

	if changed {
		s.logger.WithFields(map[string]interface{}{
			"user_id":     u.ID,
			"customer_id": u.BillingCustomerID,
		}).Info("Subscription state synced from provider")
	}
	return changed, nil
}

// mirrorSubscription copies the provider's view onto u. A customer with no
// subscription is treated as canceled.
func mirrorSubscription(u *user.User, sub *billing.Subscription) bool {
	status := user.StatusCanceled
	plan := ""
	if sub != nil {
		status = sub.Status
		plan = sub.Metadata[billing.MetadataPlan]
	}

	before := *u
	u.SubscriptionStatus = status
	if sub != nil && sub.ID != "" {
		u.BillingSubscriptionID = sub.ID
	}
	if user.IsEntitled(status) && user.IsValidPlan(plan) {
		u.Plan = plan
	}
	u.EnforceEntitlement()

	if u.Plan != before.Plan {
		now := time.Now()
		u.PlanUpdatedAt = &now
	}
	return u.Plan != before.Plan ||
		u.SubscriptionStatus != before.SubscriptionStatus ||
		u.BillingSubscriptionID != before.BillingSubscriptionID
}
