package sale

import (
	"errors"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod applies when a sale is recorded without one
const DefaultPaymentMethod = "cash"

// Sale is a single recorded sale. TotalAmount is always Quantity x UnitPrice.
type Sale struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
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

// ErrTotalOutOfRange is returned when quantity x unit price cannot be stored.
var ErrTotalOutOfRange = errors.New("quantity x unitPrice exceeds the largest storable amount")

// Recalculate rounds the unit price to cents and derives the total from it.
func (s *Sale) Recalculate() {
	s.UnitPrice = money.Round(s.UnitPrice)
	s.TotalAmount = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// CheckAmounts reports whether the unit price and total fit the stored cents.
func (s *Sale) CheckAmounts() error {
	if !money.Fits(s.UnitPrice) || !money.Fits(s.TotalAmount) {
		return ErrTotalOutOfRange
	}
	return nil
}

// Update carries a partial edit; nil fields are left unchanged
type Update struct {
	CustomerName  *string
	ProductName   *string
	Quantity      *int
	UnitPrice     *decimal.Decimal
	PaymentMethod *string
	SaleDate      *time.Time
	Category      *string
	Notes         *string
	Tags          []string
}

// Apply merges u into s and re-derives the total.
func (s *Sale) Apply(u Update) {
	if u.CustomerName != nil {
		s.CustomerName = *u.CustomerName
	}
	if u.ProductName != nil {
		s.ProductName = *u.ProductName
	}
	if u.Quantity != nil {
		s.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		s.UnitPrice = *u.UnitPrice
	}
	if u.PaymentMethod != nil {
		s.PaymentMethod = *u.PaymentMethod
	}
	if u.SaleDate != nil {
		s.SaleDate = *u.SaleDate
	}
	if u.Category != nil {
		s.Category = *u.Category
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.Tags != nil {
		s.Tags = u.Tags
	}
	s.Recalculate()
}

// Filter narrows a sale listing
type Filter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Category     string
	CustomerName string
}
