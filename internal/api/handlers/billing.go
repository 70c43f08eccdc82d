package handlers

import (
	"io"
	"net/http"

	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// SignatureHeader carries the provider's webhook signature
const SignatureHeader = "Stripe-Signature"

// maxWebhookBytes caps webhook payloads
const maxWebhookBytes = 64 << 10

// BillingHandler handles subscription and payment requests
type BillingHandler struct {
	service   billing.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBillingHandler creates a new billing handler. A nil service makes every
// endpoint answer 503.
func NewBillingHandler(service billing.Service, log *logger.Logger, val *validator.Validator) *BillingHandler {
	return &BillingHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

func (h *BillingHandler) available(w http.ResponseWriter) bool {
	if h.service == nil {
		utils.WriteError(w, errors.ServiceUnavailable("Billing is not configured"))
		return false
	}
	return true
}

// CreateCheckoutSession opens a hosted checkout
// @Summary Create checkout session
// @Description Starts a subscription checkout. The plan changes only when the provider confirms payment.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Plan and optional price"
// @Success 200 {object} billing.CheckoutSession
// @Failure 409 {object} utils.ErrorResponse "Already on the pro plan"
// @Security BearerAuth
// @Router /payments/create-checkout-session [post]
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok || !h.available(w) {
		return
	}

	var req dto.CheckoutRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.service.CreateCheckout(r.Context(), userID, req.Plan, req.PriceID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create checkout session")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, session)
}

// CreatePortalSession opens the self-service billing portal
// @Summary Create billing portal session
// @Tags Payments
// @Produce json
// @Success 200 {object} dto.PortalResponse
// @Failure 400 {object} utils.ErrorResponse "No billing account found"
// @Security BearerAuth
// @Router /payments/create-portal-session [post]
func (h *BillingHandler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok || !h.available(w) {
		return
	}

	url, err := h.service.CreatePortal(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create portal session")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.PortalResponse{URL: url})
}

// SubscriptionStatus reports the current plan and subscription
// @Summary Subscription status
// @Tags Payments
// @Produce json
// @Success 200 {object} billing.Status
// @Security BearerAuth
// @Router /payments/subscription-status [get]
func (h *BillingHandler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok || !h.available(w) {
		return
	}

	status, err := h.service.GetStatus(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get subscription status")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}

// CancelSubscription schedules cancellation at period end
// @Summary Cancel subscription
// @Description The plan stays until the provider reports the cancellation
// @Tags Payments
// @Produce json
// @Success 200 {object} billing.Subscription
// @Failure 400 {object} utils.ErrorResponse "No active subscription found"
// @Security BearerAuth
// @Router /payments/cancel-subscription [post]
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok || !h.available(w) {
		return
	}

	sub, err := h.service.CancelAtPeriodEnd(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to cancel subscription")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription will be canceled at the end of the billing period", sub)
}

// Webhook ingests a provider notification
// @Summary Billing webhook
// @Description Verifies the signature over the raw body, then reconciles the affected account
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid signature"
// @Router /payments/webhook [post]
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	outcome, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		h.logger.WithError(err).Warn("Rejected billing webhook")
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.WebhookResponse{Received: true, Outcome: string(outcome)})
}
