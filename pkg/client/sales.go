package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// SaleService handles sales ledger calls
type SaleService struct {
	client *Client
}

// CreateSaleRequest records a sale. Dates are ISO 8601 strings.
type CreateSaleRequest struct {
	CustomerName  string          `json:"customerName"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	SaleDate      string          `json:"saleDate,omitempty"`
	Category      string          `json:"category"`
	Notes         string          `json:"notes,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
}

// UpdateSaleRequest is a partial edit; nil fields are left unchanged
type UpdateSaleRequest struct {
	CustomerName  *string          `json:"customerName,omitempty"`
	ProductName   *string          `json:"productName,omitempty"`
	Quantity      *int             `json:"quantity,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	SaleDate      *string          `json:"saleDate,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
}

// SaleListOptions filters a sale listing
type SaleListOptions struct {
	ListOptions
	StartDate    string
	EndDate      string
	Category     string
	CustomerName string
}

func (o *ListOptions) apply(query url.Values) {
	if o.Page > 0 {
		query.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

// List retrieves one page of sales
func (s *SaleService) List(ctx context.Context, opts *SaleListOptions) (*SaleList, error) {
	query := url.Values{}
	if opts != nil {
		opts.apply(query)
		setIf(query, "startDate", opts.StartDate)
		setIf(query, "endDate", opts.EndDate)
		setIf(query, "category", opts.Category)
		setIf(query, "customerName", opts.CustomerName)
	}

	var list SaleList
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/sales", query), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a sale by ID
func (s *SaleService) Get(ctx context.Context, id string) (*Sale, error) {
	var sale Sale
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/sales/"+url.PathEscape(id), nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Create records a new sale
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	var sale Sale
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/sales", req, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Update edits an existing sale
func (s *SaleService) Update(ctx context.Context, id string, req UpdateSaleRequest) (*Sale, error) {
	var sale Sale
	if err := s.client.doRequest(ctx, "PUT", apiPrefix+"/sales/"+url.PathEscape(id), req, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete removes a sale
func (s *SaleService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", apiPrefix+"/sales/"+url.PathEscape(id), nil, nil)
}

// Summary returns totals over an optional date range
func (s *SaleService) Summary(ctx context.Context, startDate, endDate string) (*Summary, error) {
	query := url.Values{}
	setIf(query, "startDate", startDate)
	setIf(query, "endDate", endDate)

	var summary Summary
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/sales/stats/summary", query), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
