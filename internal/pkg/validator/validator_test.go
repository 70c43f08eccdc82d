package validator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type sampleRequest struct {
	Name          string           `json:"name" validate:"required,max=5"`
	Price         decimal.Decimal  `json:"price" validate:"gte=0"`
	Amount        *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Date          string           `json:"date,omitempty" validate:"omitempty,isodate"`
	PaymentMethod string           `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	IsRecurring   bool             `json:"isRecurring"`
	Period        string           `json:"recurringPeriod,omitempty" validate:"required_if=IsRecurring true,omitempty,oneof=weekly monthly"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()
	negative := decimal.RequireFromString("-1")
	zero := decimal.Zero

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantTag   string
	}{
		{
			name: "valid request",
			req:  sampleRequest{Name: "ok", Price: decimal.RequireFromString("9.99"), Date: "2024-12-01", PaymentMethod: "card"},
		},
		{
			name:      "missing name uses json field name",
			req:       sampleRequest{},
			wantField: "name",
			wantTag:   "required",
		},
		{
			name:      "negative decimal price",
			req:       sampleRequest{Name: "ok", Price: negative},
			wantField: "price",
			wantTag:   "gte",
		},
		{
			name:      "zero pointer amount",
			req:       sampleRequest{Name: "ok", Amount: &zero},
			wantField: "amount",
			wantTag:   "gt",
		},
		{
			name:      "bad date",
			req:       sampleRequest{Name: "ok", Date: "12/01/2024"},
			wantField: "date",
			wantTag:   "isodate",
		},
		{
			name:      "unknown payment method",
			req:       sampleRequest{Name: "ok", PaymentMethod: "crypto"},
			wantField: "paymentMethod",
			wantTag:   "paymentmethod",
		},
		{
			name:      "recurring without period",
			req:       sampleRequest{Name: "ok", IsRecurring: true},
			wantField: "recurringPeriod",
			wantTag:   "required_if",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.req)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("Validate() errors = %v, want none", errs)
				}
				return
			}

			if len(errs) != 1 {
				t.Fatalf("Validate() errors = %v, want exactly one", errs)
			}
			if errs[0].Field != tt.wantField || errs[0].Tag != tt.wantTag {
				t.Errorf("Validate() = %s/%s, want %s/%s", errs[0].Field, errs[0].Tag, tt.wantField, tt.wantTag)
			}
			if errs[0].Message == "" {
				t.Error("Validate() returned empty message")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-12-01", want: time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local)},
		{in: "2024-12-01T10:30:00Z", want: time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2024-13-01", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
