package client

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
)

// ExpenseService handles expense ledger calls
type ExpenseService struct {
	client *Client
}

// CreateExpenseRequest records an expense
type CreateExpenseRequest struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	ExpenseDate     string          `json:"expenseDate,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	Vendor          string          `json:"vendor,omitempty"`
	Receipt         string          `json:"receipt,omitempty"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringPeriod string          `json:"recurringPeriod,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// UpdateExpenseRequest is a partial edit; nil fields are left unchanged
type UpdateExpenseRequest struct {
	Description     *string          `json:"description,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Category        *string          `json:"category,omitempty"`
	ExpenseDate     *string          `json:"expenseDate,omitempty"`
	PaymentMethod   *string          `json:"paymentMethod,omitempty"`
	Vendor          *string          `json:"vendor,omitempty"`
	Receipt         *string          `json:"receipt,omitempty"`
	IsRecurring     *bool            `json:"isRecurring,omitempty"`
	RecurringPeriod *string          `json:"recurringPeriod,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// ExpenseListOptions filters an expense listing
type ExpenseListOptions struct {
	ListOptions
	StartDate string
	EndDate   string
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// List retrieves one page of expenses
func (s *ExpenseService) List(ctx context.Context, opts *ExpenseListOptions) (*ExpenseList, error) {
	query := url.Values{}
	if opts != nil {
		opts.apply(query)
		setIf(query, "startDate", opts.StartDate)
		setIf(query, "endDate", opts.EndDate)
		setIf(query, "category", opts.Category)
		if opts.MinAmount != nil {
			query.Set("minAmount", opts.MinAmount.String())
		}
		if opts.MaxAmount != nil {
			query.Set("maxAmount", opts.MaxAmount.String())
		}
	}

	var list ExpenseList
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/expenses", query), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves an expense by ID
func (s *ExpenseService) Get(ctx context.Context, id string) (*Expense, error) {
	var expense Expense
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/expenses/"+url.PathEscape(id), nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error) {
	var expense Expense
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/expenses", req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update edits an existing expense
func (s *ExpenseService) Update(ctx context.Context, id string, req UpdateExpenseRequest) (*Expense, error) {
	var expense Expense
	if err := s.client.doRequest(ctx, "PUT", apiPrefix+"/expenses/"+url.PathEscape(id), req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", apiPrefix+"/expenses/"+url.PathEscape(id), nil, nil)
}

// Summary returns totals over an optional date range
func (s *ExpenseService) Summary(ctx context.Context, startDate, endDate string) (*Summary, error) {
	query := url.Values{}
	setIf(query, "startDate", startDate)
	setIf(query, "endDate", endDate)

	var summary Summary
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/expenses/stats/summary", query), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
