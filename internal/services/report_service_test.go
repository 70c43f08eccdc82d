package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/repository/sqlstore"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
	"github.com/shopspring/decimal"
)

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	m.objects[key] = body
	return nil
}

func (m *memoryStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://exports.example.com/" + key + "?expires=" + ttl.String(), nil
}

type reportFixture struct {
	service  report.Service
	sales    sale.Service
	expenses expense.Service
	userID   string
}

func newReportFixture(t *testing.T, export ExportOptions) *reportFixture {
	t.Helper()
	db := &sqlstore.DB{DB: testutil.NewTestDB(t), Driver: "sqlite"}

	u := &user.User{Email: "owner@example.com", PasswordHash: "x", Plan: user.PlanPro, IsActive: true}
	if err := sqlstore.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	saleRepo := sqlstore.NewSaleRepository(db)
	expenseRepo := sqlstore.NewExpenseRepository(db)
	pub := &testutil.RecordingPublisher{}
	return &reportFixture{
		service:  NewReportService(sqlstore.NewReportRepository(db), saleRepo, expenseRepo, export, testLogger()),
		sales:    NewSaleService(saleRepo, pub, testLogger()),
		expenses: NewExpenseService(expenseRepo, pub, testLogger()),
		userID:   u.ID,
	}
}

func (f *reportFixture) addSale(t *testing.T, product, category string, qty int, price string, at time.Time) {
	t.Helper()
	s := &sale.Sale{
		UserID:       f.userID,
		CustomerName: "Customer",
		ProductName:  product,
		Category:     category,
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString(price),
		SaleDate:     at,
	}
	if err := f.sales.Create(context.Background(), s); err != nil {
		t.Fatalf("failed to add sale: %v", err)
	}
}

func (f *reportFixture) addExpense(t *testing.T, description, category, amount string, at time.Time) {
	t.Helper()
	e := &expense.Expense{
		UserID:      f.userID,
		Description: description,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		ExpenseDate: at,
	}
	if err := f.expenses.Create(context.Background(), e); err != nil {
		t.Fatalf("failed to add expense: %v", err)
	}
}

func december(f *reportFixture) report.Window {
	return report.Window{
		UserID: f.userID,
		Start:  time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local),
		End:    time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local),
	}
}

func TestReportService_ProfitAndLoss(t *testing.T) {
	f := newReportFixture(t, ExportOptions{})
	ctx := context.Background()

	f.addSale(t, "Widget", "retail", 1, "150", time.Date(2024, 12, 10, 12, 0, 0, 0, time.Local))
	f.addExpense(t, "Supplies", "office", "50", time.Date(2024, 12, 12, 12, 0, 0, 0, time.Local))
	// outside the window
	f.addSale(t, "Widget", "retail", 1, "999", time.Date(2025, 1, 2, 12, 0, 0, 0, time.Local))

	pl, err := f.service.ProfitAndLoss(ctx, december(f))
	if err != nil {
		t.Fatalf("ProfitAndLoss() error = %v", err)
	}

	if !pl.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Revenue = %v, want 150", pl.Revenue)
	}
	if !pl.Expenses.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expenses = %v, want 50", pl.Expenses)
	}
	if !pl.NetProfit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("NetProfit = %v, want 100", pl.NetProfit)
	}
	if pl.ProfitMargin != "66.67" {
		t.Errorf("ProfitMargin = %q, want 66.67", pl.ProfitMargin)
	}
	if pl.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", pl.Currency)
	}
	if pl.Period.StartDate != "2024-12-01" || pl.Period.EndDate != "2024-12-31" {
		t.Errorf("Period = %+v", pl.Period)
	}
}

func TestReportService_EmptyWindow(t *testing.T) {
	f := newReportFixture(t, ExportOptions{})
	ctx := context.Background()
	f.addSale(t, "Widget", "retail", 1, "10", time.Date(2024, 12, 10, 12, 0, 0, 0, time.Local))

	w := december(f)
	w.Start, w.End = w.End, w.Start

	pl, err := f.service.ProfitAndLoss(ctx, w)
	if err != nil {
		t.Fatalf("ProfitAndLoss() error = %v", err)
	}
	if !pl.Revenue.IsZero() || pl.ProfitMargin != "0.00" {
		t.Errorf("inverted window = %+v, want zeros", pl)
	}

	summary, err := f.service.Summarize(ctx, report.KindSales, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Count != 0 || !summary.Average.IsZero() || summary.TopCategories == nil {
		t.Errorf("Summarize() = %+v, want empty non-nil", summary)
	}

	analysis, err := f.service.SalesAnalysis(ctx, w)
	if err != nil {
		t.Fatalf("SalesAnalysis() error = %v", err)
	}
	if analysis.DailySales == nil || analysis.CategoryBreakdown == nil || analysis.PaymentMethods == nil || analysis.TopProducts == nil {
		t.Errorf("SalesAnalysis() has nil lists: %+v", analysis)
	}

	breakdown, err := f.service.ExpenseBreakdown(ctx, w)
	if err != nil {
		t.Fatalf("ExpenseBreakdown() error = %v", err)
	}
	if breakdown.CategoryBreakdown == nil || breakdown.MonthlyTrend == nil || breakdown.RecurringExpenses == nil || breakdown.TopVendors == nil {
		t.Errorf("ExpenseBreakdown() has nil lists: %+v", breakdown)
	}
}

func TestReportService_SummarizeAndAnalysis(t *testing.T) {
	f := newReportFixture(t, ExportOptions{})
	ctx := context.Background()
	at := func(d int) time.Time { return time.Date(2024, 12, d, 12, 0, 0, 0, time.Local) }

	f.addSale(t, "Widget", "retail", 2, "10", at(1))
	f.addSale(t, "Gadget", "retail", 1, "5", at(1))
	f.addSale(t, "Consult", "services", 1, "25", at(3))

	summary, err := f.service.Summarize(ctx, report.KindSales, december(f))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Count != 3 || !summary.TotalAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Summarize() = %d/%v, want 3/50", summary.Count, summary.TotalAmount)
	}
	if !summary.Average.Equal(decimal.RequireFromString("16.67")) {
		t.Errorf("Average = %v, want 16.67", summary.Average)
	}
	// retail and services tie at 25; retail appeared first
	if len(summary.TopCategories) != 2 || summary.TopCategories[0].Category != "retail" {
		t.Errorf("TopCategories = %+v, want retail first", summary.TopCategories)
	}

	analysis, err := f.service.SalesAnalysis(ctx, december(f))
	if err != nil {
		t.Fatalf("SalesAnalysis() error = %v", err)
	}
	if len(analysis.DailySales) != 2 || analysis.DailySales[0].Date != "2024-12-01" || analysis.DailySales[0].Count != 2 {
		t.Errorf("DailySales = %+v", analysis.DailySales)
	}
	if len(analysis.TopProducts) != 3 || analysis.TopProducts[0].Product != "Consult" {
		t.Errorf("TopProducts = %+v, want Consult first", analysis.TopProducts)
	}
	if got := analysis.CategoryBreakdown[0].AverageOrderValue; !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("AverageOrderValue = %v, want 12.50", got)
	}
}

func TestReportService_RecentTransactions(t *testing.T) {
	f := newReportFixture(t, ExportOptions{})
	ctx := context.Background()
	at := func(d int) time.Time { return time.Date(2024, 12, d, 12, 0, 0, 0, time.Local) }

	f.addSale(t, "A", "retail", 1, "1", at(1))
	f.addSale(t, "B", "retail", 1, "1", at(4))
	f.addSale(t, "C", "retail", 1, "1", at(6))
	f.addExpense(t, "X", "office", "1", at(2))
	f.addExpense(t, "Y", "office", "1", at(5))

	tests := []struct {
		name      string
		limit     int
		wantTypes []string
	}{
		{"three", 3, []string{"sale", "expense", "sale"}},
		{"four", 4, []string{"sale", "expense", "sale", "expense"}},
		{"one", 1, []string{"sale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := f.service.RecentTransactions(ctx, f.userID, tt.limit)
			if err != nil {
				t.Fatalf("RecentTransactions() error = %v", err)
			}
			if len(txns) != len(tt.wantTypes) {
				t.Fatalf("len = %d, want %d", len(txns), len(tt.wantTypes))
			}
			for i, txn := range txns {
				if txn.Type != tt.wantTypes[i] {
					t.Errorf("txns[%d].Type = %s, want %s", i, txn.Type, tt.wantTypes[i])
				}
				if i > 0 && txn.Date.After(txns[i-1].Date) {
					t.Errorf("txns not sorted newest first at %d", i)
				}
			}
		})
	}
}

func TestReportService_Export(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		f := newReportFixture(t, ExportOptions{})
		f.addSale(t, "Widget", "retail", 2, "10", time.Date(2024, 12, 10, 12, 0, 0, 0, time.Local))

		out, err := f.service.Export(context.Background(), report.TypeSales, december(f))
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if out.Filename != "sales_2024-12-01_2024-12-31.csv" {
			t.Errorf("Filename = %q", out.Filename)
		}
		records, err := csv.NewReader(bytes.NewReader(out.Body)).ReadAll()
		if err != nil {
			t.Fatalf("invalid csv: %v", err)
		}
		if len(records) != 2 || records[1][6] != "20.00" {
			t.Errorf("records = %v", records)
		}
	})

	t.Run("stored", func(t *testing.T) {
		store := &memoryStore{objects: map[string][]byte{}}
		f := newReportFixture(t, ExportOptions{Store: store, Prefix: "exports/", TTL: 15 * time.Minute})
		f.addExpense(t, "Paper", "office", "12.5", time.Date(2024, 12, 10, 12, 0, 0, 0, time.Local))

		out, err := f.service.Export(context.Background(), report.TypeProfitLoss, december(f))
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if out.URL == "" || out.Body != nil {
			t.Errorf("Export() = %+v, want link only", out)
		}
		if len(store.objects) != 1 {
			t.Fatalf("stored %d objects, want 1", len(store.objects))
		}
		for key, body := range store.objects {
			if !strings.HasPrefix(key, "exports/"+f.userID+"/") {
				t.Errorf("key = %q, want user-scoped prefix", key)
			}
			if !strings.Contains(string(body), "expenses,12.50") {
				t.Errorf("body = %q", body)
			}
		}
	})
}
