package expense

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRecurrence(t *testing.T) {
	tests := []struct {
		name       string
		recurring  bool
		period     string
		wantPeriod Period
		wantNil    bool
		wantErr    error
	}{
		{name: "one-off", recurring: false, wantNil: true},
		{name: "one-off ignores period", recurring: false, period: "monthly", wantNil: true},
		{name: "recurring monthly", recurring: true, period: "monthly", wantPeriod: Monthly},
		{name: "recurring without period", recurring: true, wantErr: ErrPeriodRequired},
		{name: "recurring with bogus period", recurring: true, period: "daily", wantErr: ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRecurrence(tt.recurring, tt.period)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRecurrence() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("NewRecurrence() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Period != tt.wantPeriod {
				t.Errorf("NewRecurrence() = %+v, want period %v", got, tt.wantPeriod)
			}
		})
	}
}

func TestExpense_Apply(t *testing.T) {
	yes := true
	no := false
	quarterly := "quarterly"

	tests := []struct {
		name       string
		start      *Recurrence
		update     Update
		wantPeriod Period
		wantErr    error
	}{
		{
			name:    "turning on recurrence needs a period",
			update:  Update{IsRecurring: &yes},
			wantErr: ErrPeriodRequired,
		},
		{
			name:       "turning on recurrence with period",
			update:     Update{IsRecurring: &yes, RecurringPeriod: &quarterly},
			wantPeriod: Quarterly,
		},
		{
			name:       "changing period keeps recurrence",
			start:      &Recurrence{Period: Monthly},
			update:     Update{RecurringPeriod: &quarterly},
			wantPeriod: Quarterly,
		},
		{
			name:   "turning off recurrence clears it",
			start:  &Recurrence{Period: Monthly},
			update: Update{IsRecurring: &no},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Expense{Amount: decimal.RequireFromString("10"), Recurrence: tt.start}
			err := e.Apply(tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if e.Recurrence != tt.start {
					t.Error("Apply() mutated recurrence on error")
				}
				return
			}
			if tt.wantPeriod == "" {
				if e.Recurrence != nil {
					t.Errorf("Recurrence = %+v, want nil", e.Recurrence)
				}
				return
			}
			if e.Recurrence == nil || e.Recurrence.Period != tt.wantPeriod {
				t.Errorf("Recurrence = %+v, want %v", e.Recurrence, tt.wantPeriod)
			}
		})
	}
}

func TestExpense_MarshalJSON(t *testing.T) {
	e := Expense{ID: "e1", Amount: decimal.RequireFromString("50"), Recurrence: &Recurrence{Period: Yearly}}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out["isRecurring"] != true || out["recurringPeriod"] != "yearly" {
		t.Errorf("recurrence fields = %v/%v", out["isRecurring"], out["recurringPeriod"])
	}
	if tags, ok := out["tags"].([]interface{}); !ok || len(tags) != 0 {
		t.Errorf("tags = %v, want empty list", out["tags"])
	}
}
