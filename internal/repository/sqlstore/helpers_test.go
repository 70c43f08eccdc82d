package sqlstore

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return &DB{DB: testutil.NewTestDB(t), Driver: "sqlite"}
}

func seedUser(t *testing.T, db *DB, email string) *user.User {
	t.Helper()
	u := &user.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Owner",
		BusinessName: "Test Shop",
		Plan:         user.PlanBasic,
		IsActive:     true,
	}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}
