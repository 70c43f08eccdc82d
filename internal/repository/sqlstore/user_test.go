package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		wantCode string
	}{
		{"create user successfully", "owner@example.com", ""},
		{"create another user", "another@example.com", ""},
		{"duplicate email", "owner@example.com", errors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &user.User{Email: tt.email, PasswordHash: "hash", IsActive: true}
			err := repo.Create(ctx, u)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Create() error = %v, want code %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if u.ID == "" {
				t.Error("Create() did not set user ID")
			}
			if u.Plan != user.PlanBasic {
				t.Errorf("Plan = %v, want basic", u.Plan)
			}
			if u.Version != 1 {
				t.Errorf("Version = %d, want 1", u.Version)
			}
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "owner@example.com")

	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{"existing user", u.ID, false},
		{"missing user", "does-not-exist", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.userID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeNotFound) {
					t.Errorf("GetByID() error = %v, want not found", err)
				}
				return
			}
			if got.Email != u.Email || got.BusinessName != "Test Shop" {
				t.Errorf("GetByID() = %+v", got)
			}
		})
	}
}

func TestUserRepository_UpdateVersioned(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "owner@example.com")

	first, err := repo.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	second, _ := repo.GetByEmail(ctx, "owner@example.com")

	now := time.Unix(time.Now().Unix(), 0)
	first.Plan = user.PlanPro
	first.SubscriptionStatus = user.StatusActive
	first.BillingCustomerID = "cus_123"
	first.BillingSubscriptionID = "sub_123"
	first.PlanUpdatedAt = &now
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if first.Version != 2 {
		t.Errorf("Version = %d, want 2", first.Version)
	}

	second.BusinessName = "Stale Shop"
	if err := repo.Update(ctx, second); !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("stale Update() error = %v, want conflict", err)
	}

	stored, err := repo.GetBySubscriptionID(ctx, "sub_123")
	if err != nil {
		t.Fatalf("GetBySubscriptionID() error = %v", err)
	}
	if stored.Plan != user.PlanPro || stored.BusinessName != "Test Shop" {
		t.Errorf("stored = plan %v business %v, stale write leaked", stored.Plan, stored.BusinessName)
	}
	if stored.PlanUpdatedAt == nil || !stored.PlanUpdatedAt.Equal(now) {
		t.Errorf("PlanUpdatedAt = %v, want %v", stored.PlanUpdatedAt, now)
	}

	missing := &user.User{ID: "missing", Version: 1}
	if err := repo.Update(ctx, missing); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Update() on missing user error = %v, want not found", err)
	}
}

func TestUserRepository_ListWithBillingCustomer(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "free@example.com")
	paying := seedUser(t, db, "paying@example.com")
	paying.BillingCustomerID = "cus_1"
	if err := repo.Update(ctx, paying); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	users, err := repo.ListWithBillingCustomer(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListWithBillingCustomer() error = %v", err)
	}
	if len(users) != 1 || users[0].ID != paying.ID {
		t.Errorf("ListWithBillingCustomer() = %d users, want only the paying one", len(users))
	}
}
