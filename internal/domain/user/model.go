package user

import "time"

// User is a business account. Subscription state mirrors the billing provider.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	BusinessName string     `json:"businessName"`
	Plan         string     `json:"plan"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`

	BillingCustomerID     string     `json:"-"`
	BillingSubscriptionID string     `json:"-"`
	SubscriptionStatus    string     `json:"subscriptionStatus,omitempty"`
	PlanUpdatedAt         *time.Time `json:"planUpdatedAt,omitempty"`
	LastPaymentAt         *time.Time `json:"lastPaymentAt,omitempty"`
	// BillingEventAt is the creation time of the newest provider event applied.
	BillingEventAt *time.Time `json:"-"`

	// Version guards read-modify-write cycles; the store bumps it on every update.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Plans
const (
	PlanBasic = "basic"
	PlanPro   = "pro"
)

// Subscription statuses, in the billing provider's vocabulary
const (
	StatusActive            = "active"
	StatusTrialing          = "trialing"
	StatusPastDue           = "past_due"
	StatusUnpaid            = "unpaid"
	StatusCanceled          = "canceled"
	StatusIncomplete        = "incomplete"
	StatusIncompleteExpired = "incomplete_expired"
	StatusPaused            = "paused"
)

// IsValidPlan reports whether p is a known plan.
func IsValidPlan(p string) bool {
	return p == PlanBasic || p == PlanPro
}

// IsEntitled reports whether a subscription status grants paid-tier features.
func IsEntitled(status string) bool {
	return status == StatusActive || status == StatusTrialing
}

// EffectiveStatus returns the stored status, defaulting legacy users to active.
func (u *User) EffectiveStatus() string {
	if u.SubscriptionStatus == "" {
		return StatusActive
	}
	return u.SubscriptionStatus
}

// IsPro reports whether the user currently holds the paid tier.
func (u *User) IsPro() bool {
	return u.Plan == PlanPro && IsEntitled(u.EffectiveStatus())
}

// EnforceEntitlement drops the plan to basic when the status no longer entitles pro.
// It reports whether the plan changed.
func (u *User) EnforceEntitlement() bool {
	if u.Plan == PlanPro && !IsEntitled(u.EffectiveStatus()) {
		u.Plan = PlanBasic
		return true
	}
	return false
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// RegisterInput carries the fields needed to open an account
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	BusinessName string
}

// ProfileUpdate carries optional profile edits; nil fields are left unchanged
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	BusinessName *string
}
