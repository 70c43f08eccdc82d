package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
)

// CreateSaleRequest represents a new sale. Any client-sent total is ignored.
type CreateSaleRequest struct {
	CustomerName  string           `json:"customerName" validate:"required,max=100"`
	ProductName   string           `json:"productName" validate:"required,max=200"`
	Quantity      int              `json:"quantity" validate:"min=1"`
	UnitPrice     *decimal.Decimal `json:"unitPrice" validate:"required,gte=0"`
	PaymentMethod string           `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	SaleDate      string           `json:"saleDate,omitempty" validate:"omitempty,isodate"`
	Category      string           `json:"category" validate:"required,max=50"`
	Notes         string           `json:"notes,omitempty" validate:"max=500"`
	Tags          []string         `json:"tags,omitempty" validate:"omitempty,dive,max=30"`
}

// ToSale builds the domain record; saleDate must already be validated
func (r CreateSaleRequest) ToSale(userID string, saleDate time.Time) *sale.Sale {
	return &sale.Sale{
		UserID:        userID,
		CustomerName:  r.CustomerName,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		UnitPrice:     *r.UnitPrice,
		PaymentMethod: r.PaymentMethod,
		SaleDate:      saleDate,
		Category:      r.Category,
		Notes:         r.Notes,
		Tags:          r.Tags,
	}
}

// UpdateSaleRequest represents a partial sale edit
type UpdateSaleRequest struct {
	CustomerName  *string          `json:"customerName,omitempty" validate:"omitempty,min=1,max=100"`
	ProductName   *string          `json:"productName,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity      *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod *string          `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	SaleDate      *string          `json:"saleDate,omitempty" validate:"omitempty,isodate"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Notes         *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
	Tags          []string         `json:"tags,omitempty" validate:"omitempty,dive,max=30"`
}

// ToUpdate builds the domain edit; saleDate is nil when not sent
func (r UpdateSaleRequest) ToUpdate(saleDate *time.Time) sale.Update {
	return sale.Update{
		CustomerName:  r.CustomerName,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		PaymentMethod: r.PaymentMethod,
		SaleDate:      saleDate,
		Category:      r.Category,
		Notes:         r.Notes,
		Tags:          r.Tags,
	}
}
