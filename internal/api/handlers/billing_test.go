package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
	"github.com/pratik-mahalle/bizlytic/internal/services"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func newBillingHandler() (*BillingHandler, *testutil.MockUserRepository, *testutil.FakeProvider) {
	repo := testutil.NewMockUserRepository()
	provider := testutil.NewFakeProvider()
	log := testLogger()
	cfg := config.BillingConfig{BasicPriceID: "price_basic", ProPriceID: "price_pro"}
	service := services.NewBillingService(repo, provider, cfg, "https://app.example.com", log)
	return NewBillingHandler(service, log, validator.New()), repo, provider
}

func webhookRequest(signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	return req
}

func TestBillingHandler_Webhook(t *testing.T) {
	handler, repo, provider := newBillingHandler()
	u := repo.Seed(&user.User{Email: "a@example.com", Plan: user.PlanBasic})

	provider.Event = billing.CheckoutCompleted{
		Envelope:       billing.Envelope{ID: "evt_1", Created: time.Now()},
		UserID:         u.ID,
		Plan:           user.PlanPro,
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
	}

	tests := []struct {
		name        string
		signature   string
		wantStatus  int
		wantCode    string
		wantOutcome string
		wantPlan    string
	}{
		{"missing signature", "", http.StatusBadRequest, errors.ErrCodeInvalidSignature, "", user.PlanBasic},
		{"wrong signature", "t=1,v1=forged", http.StatusBadRequest, errors.ErrCodeInvalidSignature, "", user.PlanBasic},
		{"verified checkout", testutil.ValidSignature, http.StatusOK, "", "applied", user.PlanPro},
		{"replay converges", testutil.ValidSignature, http.StatusOK, "", "applied", user.PlanPro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.Webhook(rr, webhookRequest(tt.signature))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			env := decodeEnvelope(t, rr)
			if tt.wantCode != "" && env.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", env.Error.Code, tt.wantCode)
			}
			if tt.wantOutcome != "" {
				var ack struct {
					Received bool   `json:"received"`
					Outcome  string `json:"outcome"`
				}
				_ = json.Unmarshal(env.Data, &ack)
				if !ack.Received || ack.Outcome != tt.wantOutcome {
					t.Errorf("ack = %+v, want outcome %s", ack, tt.wantOutcome)
				}
			}
			if got := repo.Users[u.ID].Plan; got != tt.wantPlan {
				t.Errorf("plan = %s, want %s", got, tt.wantPlan)
			}
		})
	}
}

func TestBillingHandler_CreateCheckoutSession(t *testing.T) {
	handler, repo, provider := newBillingHandler()
	basic := repo.Seed(&user.User{Email: "basic@example.com", Plan: user.PlanBasic})
	pro := repo.Seed(&user.User{Email: "pro@example.com", Plan: user.PlanPro, SubscriptionStatus: user.StatusActive})

	tests := []struct {
		name       string
		userID     string
		body       map[string]string
		wantStatus int
	}{
		{"basic upgrades", basic.ID, map[string]string{"plan": "pro"}, http.StatusOK},
		{"pro to pro conflicts", pro.ID, map[string]string{"plan": "pro"}, http.StatusConflict},
		{"unknown plan", basic.ID, map[string]string{"plan": "gold"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.CreateCheckoutSession(rr, newRequest(http.MethodPost, "/api/v1/payments/create-checkout-session", tt.userID, tt.body, nil))
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}

	if len(provider.Checkouts) != 1 {
		t.Errorf("checkouts = %d, want 1", len(provider.Checkouts))
	}
	if repo.Users[basic.ID].Plan != user.PlanBasic {
		t.Error("checkout changed the local plan")
	}
}

func TestBillingHandler_CancelWithoutSubscription(t *testing.T) {
	handler, repo, provider := newBillingHandler()
	u := repo.Seed(&user.User{Email: "a@example.com", Plan: user.PlanBasic})

	rr := httptest.NewRecorder()
	handler.CancelSubscription(rr, newRequest(http.MethodPost, "/api/v1/payments/cancel-subscription", u.ID, nil, nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if len(provider.Canceled) != 0 {
		t.Error("provider asked to cancel without a subscription")
	}
}

func TestBillingHandler_NotConfigured(t *testing.T) {
	handler := NewBillingHandler(nil, testLogger(), validator.New())

	rr := httptest.NewRecorder()
	handler.Webhook(rr, webhookRequest(testutil.ValidSignature))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
