package sale

import (
	"errors"
	"testing"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
	"github.com/shopspring/decimal"
)

func TestSale_Apply_RecomputesTotal(t *testing.T) {
	s := &Sale{Quantity: 2, UnitPrice: decimal.RequireFromString("75")}
	s.Recalculate()

	qty := 3
	price := decimal.RequireFromString("19.999")

	tests := []struct {
		name      string
		update    Update
		wantTotal string
	}{
		{"initial", Update{}, "150"},
		{"quantity change", Update{Quantity: &qty}, "225"},
		{"price change rounds to cents", Update{UnitPrice: &price}, "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Apply(tt.update)
			if !s.TotalAmount.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("TotalAmount = %s, want %s", s.TotalAmount, tt.wantTotal)
			}
			if !s.TotalAmount.Equal(s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))) {
				t.Errorf("TotalAmount %s != quantity %d x unit price %s", s.TotalAmount, s.Quantity, s.UnitPrice)
			}
		})
	}
}

func TestSale_Recalculate_IgnoresClientTotal(t *testing.T) {
	s := &Sale{Quantity: 4, UnitPrice: decimal.RequireFromString("2.50"), TotalAmount: decimal.RequireFromString("1000")}
	s.Recalculate()
	if !s.TotalAmount.Equal(decimal.RequireFromString("10")) {
		t.Errorf("TotalAmount = %s, want 10", s.TotalAmount)
	}
}

func TestSale_CheckAmounts(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		wantErr   bool
	}{
		{"ordinary sale", 3, "19.99", false},
		{"largest storable total", 1, "92233720368547758.07", false},
		{"total past the storable range", 1_000_000_000, "100000000000", true},
		{"unit price past the storable range", 1, "92233720368547758.08", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Sale{Quantity: tt.quantity, UnitPrice: decimal.RequireFromString(tt.unitPrice)}
			s.Recalculate()
			err := s.CheckAmounts()
			if tt.wantErr {
				if !errors.Is(err, ErrTotalOutOfRange) {
					t.Errorf("CheckAmounts() error = %v, want ErrTotalOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckAmounts() error = %v", err)
			}
			stored, err := money.ToCents(s.TotalAmount)
			if err != nil {
				t.Fatalf("ToCents() error = %v", err)
			}
			if !money.FromCents(stored).Equal(s.TotalAmount) {
				t.Errorf("stored total %s != %s", money.FromCents(stored), s.TotalAmount)
			}
		})
	}
}
