package expense

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod applies when an expense is recorded without one
const DefaultPaymentMethod = "cash"

// Period is how often a recurring expense repeats
type Period string

// Recurrence periods
const (
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

// Periods lists every recurrence period.
var Periods = []Period{Weekly, Monthly, Quarterly, Yearly}

var (
	ErrPeriodRequired   = errors.New("recurringPeriod is required when isRecurring is true")
	ErrInvalidPeriod    = errors.New("recurringPeriod must be one of [weekly monthly quarterly yearly]")
	ErrAmountOutOfRange = errors.New("amount exceeds the largest storable amount")
)

// Recurrence marks an expense as repeating. A nil *Recurrence means one-off.
type Recurrence struct {
	Period Period
}

// NewRecurrence builds the recurrence for the wire pair (isRecurring, recurringPeriod).
// A one-off expense yields nil regardless of period.
func NewRecurrence(recurring bool, period string) (*Recurrence, error) {
	if !recurring {
		return nil, nil
	}
	if period == "" {
		return nil, ErrPeriodRequired
	}
	for _, p := range Periods {
		if Period(period) == p {
			return &Recurrence{Period: p}, nil
		}
	}
	return nil, ErrInvalidPeriod
}

// Expense is a single recorded business expense
type Expense struct {
	ID            string
	UserID        string
	Description   string
	Amount        decimal.Decimal
	Category      string
	ExpenseDate   time.Time
	PaymentMethod string
	Vendor        string
	Receipt       string
	Recurrence    *Recurrence
	Tags          []string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRecurring reports whether the expense repeats.
func (e *Expense) IsRecurring() bool {
	return e.Recurrence != nil
}

// Normalize rounds the amount to cents.
func (e *Expense) Normalize() {
	e.Amount = money.Round(e.Amount)
}

// CheckAmount reports whether the amount fits the stored cents.
func (e *Expense) CheckAmount() error {
	if !money.Fits(e.Amount) {
		return ErrAmountOutOfRange
	}
	return nil
}

type expenseJSON struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	Vendor          string          `json:"vendor,omitempty"`
	Receipt         string          `json:"receipt,omitempty"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringPeriod Period          `json:"recurringPeriod,omitempty"`
	Tags            []string        `json:"tags"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MarshalJSON flattens the recurrence into the isRecurring/recurringPeriod pair clients expect.
func (e Expense) MarshalJSON() ([]byte, error) {
	out := expenseJSON{
		ID:            e.ID,
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      e.Category,
		ExpenseDate:   e.ExpenseDate,
		PaymentMethod: e.PaymentMethod,
		Vendor:        e.Vendor,
		Receipt:       e.Receipt,
		Tags:          e.Tags,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if e.Recurrence != nil {
		out.IsRecurring = true
		out.RecurringPeriod = e.Recurrence.Period
	}
	return json.Marshal(out)
}

// Update carries a partial edit; nil fields are left unchanged
type Update struct {
	Description     *string
	Amount          *decimal.Decimal
	Category        *string
	ExpenseDate     *time.Time
	PaymentMethod   *string
	Vendor          *string
	Receipt         *string
	IsRecurring     *bool
	RecurringPeriod *string
	Tags            []string
	Notes           *string
}

// Apply merges u into e. The recurrence is rebuilt from the merged pair so a
// recurring expense can never lose its period.
func (e *Expense) Apply(u Update) error {
	recurring := e.IsRecurring()
	period := ""
	if e.Recurrence != nil {
		period = string(e.Recurrence.Period)
	}
	if u.IsRecurring != nil {
		recurring = *u.IsRecurring
	}
	if u.RecurringPeriod != nil {
		period = *u.RecurringPeriod
	}
	rec, err := NewRecurrence(recurring, period)
	if err != nil {
		return err
	}

	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.ExpenseDate != nil {
		e.ExpenseDate = *u.ExpenseDate
	}
	if u.PaymentMethod != nil {
		e.PaymentMethod = *u.PaymentMethod
	}
	if u.Vendor != nil {
		e.Vendor = *u.Vendor
	}
	if u.Receipt != nil {
		e.Receipt = *u.Receipt
	}
	if u.Tags != nil {
		e.Tags = u.Tags
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
	e.Recurrence = rec
	e.Normalize()
	return nil
}

// Filter narrows an expense listing
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}
