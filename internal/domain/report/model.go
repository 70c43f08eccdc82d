package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects the ledger a summary runs over
type Kind string

// Ledger kinds
const (
	KindSales    Kind = "sales"
	KindExpenses Kind = "expenses"
)

// Type names an exportable report
type Type string

// Exportable reports
const (
	TypeSales      Type = "sales"
	TypeExpenses   Type = "expenses"
	TypeProfitLoss Type = "profit-loss"
)

// IsValidType reports whether t names an exportable report.
func IsValidType(t string) bool {
	switch Type(t) {
	case TypeSales, TypeExpenses, TypeProfitLoss:
		return true
	}
	return false
}

// Currency is reported alongside profit and loss figures.
const Currency = "USD"

// Limits for ranked views
const (
	TopCategoriesLimit = 5
	TopProductsLimit   = 10
	TopVendorsLimit    = 10
	RecentMaxLimit     = 50
	RecentDefaultLimit = 10
)

// Window is an inclusive time range scoped to one user. An inverted window
// matches nothing.
type Window struct {
	UserID string
	Start  time.Time
	End    time.Time
}

// Period echoes the requested range back to clients.
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

// Summary is the count/sum/mean of a ledger over a window
type Summary struct {
	Kind          Kind            `json:"kind"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Average       decimal.Decimal `json:"average"`
	TopCategories []CategoryTotal `json:"topCategories"`
}

// ProfitLoss compares revenue and expenses over a window
type ProfitLoss struct {
	Period       Period          `json:"period"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin string          `json:"profitMargin"`
	Currency     string          `json:"currency"`
}

// DailySales is one day of the sales series
type DailySales struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// CategorySales is the sales breakdown for one category
type CategorySales struct {
	Category          string          `json:"category"`
	Count             int64           `json:"count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// PaymentMethodSales is the sales breakdown for one payment method
type PaymentMethodSales struct {
	PaymentMethod string          `json:"paymentMethod"`
	Count         int64           `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// ProductSales ranks a product by revenue
type ProductSales struct {
	Product  string          `json:"product"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesAnalysis is the full sales report for a window
type SalesAnalysis struct {
	Period            Period               `json:"period"`
	DailySales        []DailySales         `json:"dailySales"`
	CategoryBreakdown []CategorySales      `json:"categoryBreakdown"`
	PaymentMethods    []PaymentMethodSales `json:"paymentMethods"`
	TopProducts       []ProductSales       `json:"topProducts"`
}

// CategoryExpenses is the expense breakdown for one category
type CategoryExpenses struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
	Average  decimal.Decimal `json:"average"`
}

// MonthlyExpenses is one month of the expense trend
type MonthlyExpenses struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// RecurringExpenses groups recurring expenses per category
type RecurringExpenses struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Period   string          `json:"period"`
}

// VendorExpenses ranks a vendor by spend
type VendorExpenses struct {
	Vendor string          `json:"vendor"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

// ExpenseBreakdown is the full expense report for a window
type ExpenseBreakdown struct {
	Period            Period              `json:"period"`
	CategoryBreakdown []CategoryExpenses  `json:"categoryBreakdown"`
	MonthlyTrend      []MonthlyExpenses   `json:"monthlyTrend"`
	RecurringExpenses []RecurringExpenses `json:"recurringExpenses"`
	TopVendors        []VendorExpenses    `json:"topVendors"`
}

// Transaction is a sale or expense in the merged recent-activity feed
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// Transaction types
const (
	TransactionSale    = "sale"
	TransactionExpense = "expense"
)

// Export is a rendered report, either inline or stored with a download link
type Export struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	Body        []byte    `json:"-"`
}
