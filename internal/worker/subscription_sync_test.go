package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/services"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func TestNewSubscriptionSync_ValidatesSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"@every 6h", false},
		{"0 */6 * * *", false},
		{"every six hours", true},
	}
	for _, tt := range tests {
		_, err := NewSubscriptionSync(nil, nil, tt.schedule, logger.Nop())
		if (err != nil) != tt.wantErr {
			t.Errorf("NewSubscriptionSync(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
		}
	}
}

func TestSubscriptionSync_RunOnce(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	provider := testutil.NewFakeProvider()
	log := logger.Nop()
	billingService := services.NewBillingService(repo, provider, config.BillingConfig{}, "http://localhost", log)

	canceled := repo.Seed(&user.User{Email: "a@example.com", Plan: user.PlanPro, SubscriptionStatus: user.StatusActive, BillingCustomerID: "cus_a"})
	provider.Latest["cus_a"] = &billing.Subscription{ID: "sub_a", Status: user.StatusCanceled}

	current := repo.Seed(&user.User{Email: "b@example.com", Plan: user.PlanPro, SubscriptionStatus: user.StatusActive, BillingCustomerID: "cus_b", BillingSubscriptionID: "sub_b"})
	provider.Latest["cus_b"] = &billing.Subscription{ID: "sub_b", Status: user.StatusActive, Metadata: map[string]string{"plan": "pro"}}

	repo.Seed(&user.User{Email: "free@example.com", Plan: user.PlanBasic})

	worker, err := NewSubscriptionSync(billingService, repo, "@every 6h", log)
	if err != nil {
		t.Fatalf("NewSubscriptionSync() error = %v", err)
	}

	result, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Checked != 2 || result.Updated != 1 || result.Failed != 0 {
		t.Errorf("RunOnce() = %+v, want 2 checked, 1 updated", result)
	}

	got, _ := repo.GetByID(context.Background(), canceled.ID)
	if got.Plan != user.PlanBasic || got.SubscriptionStatus != user.StatusCanceled {
		t.Errorf("canceled user = %s/%s, want basic/canceled", got.Plan, got.SubscriptionStatus)
	}
	got, _ = repo.GetByID(context.Background(), current.ID)
	if got.Plan != user.PlanPro {
		t.Errorf("current user plan = %s, want pro", got.Plan)
	}
}

func TestSubscriptionSync_ProviderFailureIsCounted(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	provider := testutil.NewFakeProvider()
	provider.LookupError = fmt.Errorf("provider down")
	log := logger.Nop()
	billingService := services.NewBillingService(repo, provider, config.BillingConfig{}, "http://localhost", log)

	repo.Seed(&user.User{Email: "a@example.com", Plan: user.PlanPro, BillingCustomerID: "cus_a"})

	worker, _ := NewSubscriptionSync(billingService, repo, "@every 1h", log)
	result, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Failed != 1 || result.Updated != 0 {
		t.Errorf("RunOnce() = %+v, want 1 failed", result)
	}
}
