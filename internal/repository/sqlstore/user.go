package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

const userColumns = `id, email, password_hash, first_name, last_name, business_name, plan, is_active,
	last_login_at, billing_customer_id, billing_subscription_id, subscription_status,
	plan_updated_at, last_payment_at, billing_event_at, version, created_at, updated_at`

// UserRepository implements user.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Plan == "" {
		u.Plan = user.PlanBasic
	}
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.exec(ctx, "insert", "users", query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.BusinessName, u.Plan, u.IsActive,
		unixPtr(u.LastLoginAt), nullString(u.BillingCustomerID), nullString(u.BillingSubscriptionID),
		nullString(u.SubscriptionStatus), unixPtr(u.PlanUpdatedAt), unixPtr(u.LastPaymentAt),
		unixPtr(u.BillingEventAt), u.Version, now.Unix(), now.Unix(),
	)
	if isUniqueViolation(err) {
		return errors.Conflict("User already exists with this email")
	}
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

// GetBySubscriptionID retrieves the user holding a billing subscription
func (r *UserRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*user.User, error) {
	return r.getOne(ctx, "billing_subscription_id = ?", subscriptionID)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	u, err := scanUser(r.db.queryRow(ctx, "users", query, arg))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// Update writes u only if its version is current, then bumps the version
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	now := time.Now()

	query := `
		UPDATE users
		SET email = ?, password_hash = ?, first_name = ?, last_name = ?, business_name = ?, plan = ?,
			is_active = ?, last_login_at = ?, billing_customer_id = ?, billing_subscription_id = ?,
			subscription_status = ?, plan_updated_at = ?, last_payment_at = ?, billing_event_at = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.exec(ctx, "update", "users", query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.BusinessName, u.Plan,
		u.IsActive, unixPtr(u.LastLoginAt), nullString(u.BillingCustomerID), nullString(u.BillingSubscriptionID),
		nullString(u.SubscriptionStatus), unixPtr(u.PlanUpdatedAt), unixPtr(u.LastPaymentAt), unixPtr(u.BillingEventAt),
		now.Unix(), u.ID, u.Version,
	)
	if isUniqueViolation(err) {
		return errors.Conflict("User already exists with this email")
	}
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
		return errors.Conflict("User was modified concurrently")
	}

	u.Version++
	u.UpdatedAt = now
	return nil
}

// ListWithBillingCustomer pages through users that have a billing customer reference
func (r *UserRepository) ListWithBillingCustomer(ctx context.Context, limit, offset int) ([]*user.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE billing_customer_id IS NOT NULL AND billing_customer_id <> ''
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.query(ctx, "users", query, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list users", err)
	}
	return users, nil
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	var lastLogin, planUpdated, lastPayment, eventAt sql.NullInt64
	var customerID, subscriptionID, status sql.NullString
	var createdAt, updatedAt int64

	err := s.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.BusinessName, &u.Plan, &u.IsActive,
		&lastLogin, &customerID, &subscriptionID, &status,
		&planUpdated, &lastPayment, &eventAt, &u.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.LastLoginAt = timePtr(lastLogin)
	u.BillingCustomerID = customerID.String
	u.BillingSubscriptionID = subscriptionID.String
	u.SubscriptionStatus = status.String
	u.PlanUpdatedAt = timePtr(planUpdated)
	u.LastPaymentAt = timePtr(lastPayment)
	u.BillingEventAt = timePtr(eventAt)
	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)
	return &u, nil
}
