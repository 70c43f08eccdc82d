package services

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() (user.Service, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewUserService(repo, bcrypt.MinCost, log), repo
}

func registerInput(email string) user.RegisterInput {
	return user.RegisterInput{
		Email:        email,
		Password:     "secret123",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		BusinessName: "Engines Ltd",
	}
}

func TestUserService_Register(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		wantCode string
	}{
		{"successful registration", "Ada@Example.com ", ""},
		{"duplicate email", "ada@example.com", errors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Register(ctx, registerInput(tt.email))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if u.Email != "ada@example.com" {
				t.Errorf("Email = %q, want normalized", u.Email)
			}
			if u.Plan != user.PlanBasic {
				t.Errorf("Plan = %v, want basic", u.Plan)
			}
			if u.PasswordHash == "secret123" {
				t.Error("password stored in plaintext")
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	service, repo := newTestUserService()
	ctx := context.Background()

	registered, err := service.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	inactive, _ := service.Register(ctx, registerInput("gone@example.com"))
	stored, _ := repo.GetByID(ctx, inactive.ID)
	stored.IsActive = false
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid credentials", "ada@example.com", "secret123", false},
		{"wrong password", "ada@example.com", "wrong", true},
		{"unknown email", "nobody@example.com", "secret123", true},
		{"deactivated account", "gone@example.com", "secret123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Authenticate(ctx, tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnauthorized) {
					t.Errorf("Authenticate() error = %v, want unauthorized", err)
				}
				return
			}
			if u.ID != registered.ID || u.LastLoginAt == nil {
				t.Errorf("Authenticate() = %+v, want last login stamped", u)
			}
		})
	}
}

func TestUserService_UpdateProfileRetriesOnConflict(t *testing.T) {
	service, repo := newTestUserService()
	ctx := context.Background()

	u, _ := service.Register(ctx, registerInput("ada@example.com"))
	repo.StaleWrites = 1

	name := "Analytical Engines"
	updated, err := service.UpdateProfile(ctx, u.ID, user.ProfileUpdate{BusinessName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.BusinessName != name {
		t.Errorf("BusinessName = %v, want %v", updated.BusinessName, name)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("FirstName = %v, untouched field changed", updated.FirstName)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	u, _ := service.Register(ctx, registerInput("ada@example.com"))

	if err := service.ChangePassword(ctx, u.ID, "wrong", "newsecret"); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("ChangePassword() with wrong current error = %v, want unauthorized", err)
	}
	if err := service.ChangePassword(ctx, u.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := service.Authenticate(ctx, "ada@example.com", "newsecret"); err != nil {
		t.Errorf("Authenticate() with new password error = %v", err)
	}
}
