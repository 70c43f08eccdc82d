package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/repository/sqlstore"
	"github.com/pratik-mahalle/bizlytic/internal/services"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func newReportHandler(t *testing.T) (*ReportHandler, string) {
	t.Helper()
	db := &sqlstore.DB{DB: testutil.NewTestDB(t), Driver: "sqlite"}
	log := testLogger()

	u := &user.User{Email: "owner@example.com", PasswordHash: "x", Plan: user.PlanPro, IsActive: true}
	if err := sqlstore.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	saleRepo := sqlstore.NewSaleRepository(db)
	sales := services.NewSaleService(saleRepo, &testutil.RecordingPublisher{}, log)
	for i, price := range []string{"100", "50"} {
		err := sales.Create(context.Background(), &sale.Sale{
			UserID:       u.ID,
			CustomerName: "Ada",
			ProductName:  "Consulting",
			Quantity:     1,
			UnitPrice:    decimal.RequireFromString(price),
			Category:     "services",
			SaleDate:     time.Date(2024, 12, 10+i, 12, 0, 0, 0, time.Local),
		})
		if err != nil {
			t.Fatalf("failed to seed sale: %v", err)
		}
	}

	service := services.NewReportService(sqlstore.NewReportRepository(db), saleRepo, sqlstore.NewExpenseRepository(db), services.ExportOptions{}, log)
	return NewReportHandler(service, log), u.ID
}

func TestReportHandler_ProfitLoss(t *testing.T) {
	handler, userID := newReportHandler(t)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantRevenue string
	}{
		{"whole month", "?startDate=2024-12-01&endDate=2024-12-31", http.StatusOK, "150"},
		{"end date is inclusive", "?startDate=2024-12-01&endDate=2024-12-10", http.StatusOK, "100"},
		{"inverted window is empty", "?startDate=2024-12-31&endDate=2024-12-01", http.StatusOK, "0"},
		{"missing dates", "", http.StatusBadRequest, ""},
		{"bad start date", "?startDate=12/01/2024&endDate=2024-12-31", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ProfitLoss(rr, newRequest(http.MethodGet, "/api/v1/reports/profit-loss"+tt.query, userID, nil, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var pl struct {
				Revenue  decimal.Decimal `json:"revenue"`
				Currency string          `json:"currency"`
			}
			if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &pl); err != nil {
				t.Fatalf("failed to decode report: %v", err)
			}
			if !pl.Revenue.Equal(decimal.RequireFromString(tt.wantRevenue)) {
				t.Errorf("revenue = %s, want %s", pl.Revenue, tt.wantRevenue)
			}
			if pl.Currency != "USD" {
				t.Errorf("currency = %q, want USD", pl.Currency)
			}
		})
	}
}

func TestReportHandler_ExportInline(t *testing.T) {
	handler, userID := newReportHandler(t)

	t.Run("csv attachment", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Export(rr, newRequest(http.MethodGet, "/api/v1/reports/export?reportType=sales&startDate=2024-12-01&endDate=2024-12-31", userID, nil, nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q, want text/csv", ct)
		}
		if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=sales_2024-12-01_2024-12-31.csv" {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if lines := strings.Count(strings.TrimSpace(rr.Body.String()), "\n"); lines != 2 {
			t.Errorf("csv has %d data rows, want 2", lines)
		}
	})

	t.Run("unknown report type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Export(rr, newRequest(http.MethodGet, "/api/v1/reports/export?reportType=payroll&startDate=2024-12-01&endDate=2024-12-31", userID, nil, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		if got := decodeEnvelope(t, rr).fields(); len(got) != 1 || got[0] != "reportType" {
			t.Errorf("fields = %v, want [reportType]", got)
		}
	})
}

func TestReportHandler_RecentTransactions(t *testing.T) {
	handler, userID := newReportHandler(t)

	rr := httptest.NewRecorder()
	handler.RecentTransactions(rr, newRequest(http.MethodGet, "/api/v1/dashboard/recent-transactions?limit=1", userID, nil, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var txs []struct {
		Type   string          `json:"type"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &txs); err != nil {
		t.Fatalf("failed to decode transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != "sale" || !txs[0].Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("transactions = %+v, want the newest sale only", txs)
	}
}

func TestAttachment(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sales.csv", "attachment; filename=sales.csv"},
		{"q1 report.csv", `attachment; filename="q1 report.csv"`},
		{`say "hi".csv`, `attachment; filename="say \"hi\".csv"`},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := attachment(tt.filename)
			if got != tt.want {
				t.Errorf("attachment(%q) = %q, want %q", tt.filename, got, tt.want)
			}
			disposition, params, err := mime.ParseMediaType(got)
			if err != nil {
				t.Fatalf("ParseMediaType(%q) error = %v", got, err)
			}
			if disposition != "attachment" || params["filename"] != tt.filename {
				t.Errorf("parsed = %s %v", disposition, params)
			}
		})
	}
}
