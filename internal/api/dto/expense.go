package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
)

// CreateExpenseRequest represents a new expense
type CreateExpenseRequest struct {
	Description     string           `json:"description" validate:"required,max=200"`
	Amount          *decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Category        string           `json:"category" validate:"required,max=50"`
	ExpenseDate     string           `json:"expenseDate,omitempty" validate:"omitempty,isodate"`
	PaymentMethod   string           `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	Vendor          string           `json:"vendor,omitempty" validate:"max=100"`
	Receipt         string           `json:"receipt,omitempty" validate:"max=500"`
	IsRecurring     bool             `json:"isRecurring"`
	RecurringPeriod string           `json:"recurringPeriod,omitempty" validate:"required_if=IsRecurring true"`
	Tags            []string         `json:"tags,omitempty" validate:"omitempty,dive,max=30"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
}

// ToExpense builds the domain record; the recurrence must already be resolved
func (r CreateExpenseRequest) ToExpense(userID string, expenseDate time.Time, rec *expense.Recurrence) *expense.Expense {
	return &expense.Expense{
		UserID:        userID,
		Description:   r.Description,
		Amount:        *r.Amount,
		Category:      r.Category,
		ExpenseDate:   expenseDate,
		PaymentMethod: r.PaymentMethod,
		Vendor:        r.Vendor,
		Receipt:       r.Receipt,
		Recurrence:    rec,
		Tags:          r.Tags,
		Notes:         r.Notes,
	}
}

// UpdateExpenseRequest represents a partial expense edit
type UpdateExpenseRequest struct {
	Description     *string          `json:"description,omitempty" validate:"omitempty,min=1,max=200"`
	Amount          *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	ExpenseDate     *string          `json:"expenseDate,omitempty" validate:"omitempty,isodate"`
	PaymentMethod   *string          `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	Vendor          *string          `json:"vendor,omitempty" validate:"omitempty,max=100"`
	Receipt         *string          `json:"receipt,omitempty" validate:"omitempty,max=500"`
	IsRecurring     *bool            `json:"isRecurring,omitempty"`
	RecurringPeriod *string          `json:"recurringPeriod,omitempty"`
	Tags            []string         `json:"tags,omitempty" validate:"omitempty,dive,max=30"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUpdate builds the domain edit; expenseDate is nil when not sent
func (r UpdateExpenseRequest) ToUpdate(expenseDate *time.Time) expense.Update {
	return expense.Update{
		Description:     r.Description,
		Amount:          r.Amount,
		Category:        r.Category,
		ExpenseDate:     expenseDate,
		PaymentMethod:   r.PaymentMethod,
		Vendor:          r.Vendor,
		Receipt:         r.Receipt,
		IsRecurring:     r.IsRecurring,
		RecurringPeriod: r.RecurringPeriod,
		Tags:            r.Tags,
		Notes:           r.Notes,
	}
}
