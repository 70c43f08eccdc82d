package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListOptions contains common pagination options
type ListOptions struct {
	Page  int
	Limit int
}

// Pagination describes one page of a list response
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Sale is a recorded sale
type Sale struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	SaleDate      time.Time       `json:"saleDate"`
	Category      string          `json:"category"`
	Notes         string          `json:"notes,omitempty"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// SaleList is one page of sales
type SaleList struct {
	Items      []Sale     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Expense is a recorded expense
type Expense struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	Vendor          string          `json:"vendor,omitempty"`
	Receipt         string          `json:"receipt,omitempty"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringPeriod string          `json:"recurringPeriod,omitempty"`
	Tags            []string        `json:"tags"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ExpenseList is one page of expenses
type ExpenseList struct {
	Items      []Expense  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Event is a calendar entry
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	IsAllDay    bool      `json:"isAllDay"`
	Location    string    `json:"location,omitempty"`
	Attendees   []string  `json:"attendees"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Period echoes the range a report covers
type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CategoryTotal is one entry of a top-categories list
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// Summary is the count, sum and mean of a ledger
type Summary struct {
	Kind          string          `json:"kind"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Average       decimal.Decimal `json:"average"`
	TopCategories []CategoryTotal `json:"topCategories"`
}

// ProfitLoss compares revenue and expenses
type ProfitLoss struct {
	Period       Period          `json:"period"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin string          `json:"profitMargin"`
	Currency     string          `json:"currency"`
}

// SalesAnalysis is the sales report for a range
type SalesAnalysis struct {
	Period     Period `json:"period"`
	DailySales []struct {
		Date    string          `json:"date"`
		Revenue decimal.Decimal `json:"revenue"`
		Count   int64           `json:"count"`
	} `json:"dailySales"`
	CategoryBreakdown []struct {
		Category          string          `json:"category"`
		Count             int64           `json:"count"`
		Revenue           decimal.Decimal `json:"revenue"`
		AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	} `json:"categoryBreakdown"`
	PaymentMethods []struct {
		PaymentMethod string          `json:"paymentMethod"`
		Count         int64           `json:"count"`
		Revenue       decimal.Decimal `json:"revenue"`
	} `json:"paymentMethods"`
	TopProducts []struct {
		Product  string          `json:"product"`
		Quantity int64           `json:"quantity"`
		Revenue  decimal.Decimal `json:"revenue"`
	} `json:"topProducts"`
}

// ExpenseBreakdown is the expense report for a range
type ExpenseBreakdown struct {
	Period            Period `json:"period"`
	CategoryBreakdown []struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
		Count    int64           `json:"count"`
		Average  decimal.Decimal `json:"average"`
	} `json:"categoryBreakdown"`
	MonthlyTrend []struct {
		Year  int             `json:"year"`
		Month int             `json:"month"`
		Total decimal.Decimal `json:"total"`
		Count int64           `json:"count"`
	} `json:"monthlyTrend"`
	RecurringExpenses []struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
		Period   string          `json:"period"`
	} `json:"recurringExpenses"`
	TopVendors []struct {
		Vendor string          `json:"vendor"`
		Total  decimal.Decimal `json:"total"`
		Count  int64           `json:"count"`
	} `json:"topVendors"`
}

// Transaction is one entry of the recent-activity feed
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"` // sale or expense
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// Export is a report file. Stored exports carry a URL; inline ones carry Body.
type Export struct {
	Filename  string `json:"filename"`
	URL       string `json:"url,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Body      []byte `json:"-"`
}

// Subscription is the provider's view of a subscription
type Subscription struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	CurrentPeriodEnd  time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool      `json:"cancelAtPeriodEnd"`
}

// SubscriptionStatus is the caller's plan and subscription state
type SubscriptionStatus struct {
	Plan               string        `json:"plan"`
	SubscriptionStatus string        `json:"subscriptionStatus"`
	PlanUpdatedAt      *time.Time    `json:"planUpdatedAt,omitempty"`
	Subscription       *Subscription `json:"subscription,omitempty"`
}

// CheckoutSession is a hosted checkout page
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status string `json:"status"`
}
