package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	csvContentType = "text/csv"
	exportPageSize = 100
)

// ExportOptions controls where exported reports go. A nil Store returns the
// file inline.
type ExportOptions struct {
	Store  report.ArtifactStore
	Prefix string
	TTL    time.Duration
}

// ReportService implements report.Service
type ReportService struct {
	repo     report.Repository
	sales    sale.Repository
	expenses expense.Repository
	export   ExportOptions
	logger   *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(
	repo report.Repository,
	sales sale.Repository,
	expenses expense.Repository,
	export ExportOptions,
	log *logger.Logger,
) report.Service {
	return &ReportService{
		repo:     repo,
		sales:    sales,
		expenses: expenses,
		export:   export,
		logger:   log,
	}
}

func periodOf(w report.Window) report.Period {
	return report.Period{
		StartDate: w.Start.In(time.Local).Format(validator.DateLayout),
		EndDate:   w.End.In(time.Local).Format(validator.DateLayout),
	}
}

func observe(name string, start time.Time) {
	metrics.RecordReport(name, time.Since(start))
}

// Summarize returns count, sum, mean and the top categories of a ledger
func (s *ReportService) Summarize(ctx context.Context, kind report.Kind, w report.Window) (*report.Summary, error) {
	defer observe(string(kind)+"_summary", time.Now())

	count, sum, err := s.repo.Totals(ctx, kind, w)
	if err != nil {
		return nil, err
	}
	buckets, err := s.repo.Categories(ctx, kind, w, report.TopCategoriesLimit)
	if err != nil {
		return nil, err
	}

	total := money.FromCents(sum)
	top := make([]report.CategoryTotal, 0, len(buckets))
	for _, b := range buckets {
		top = append(top, report.CategoryTotal{
			Category: b.Key,
			Total:    money.FromCents(b.SumCents),
			Count:    b.Count,
		})
	}

	return &report.Summary{
		Kind:          kind,
		Count:         count,
		TotalAmount:   total,
		Average:       money.Mean(total, count),
		TopCategories: top,
	}, nil
}

// ProfitAndLoss compares revenue against expenses
func (s *ReportService) ProfitAndLoss(ctx context.Context, w report.Window) (*report.ProfitLoss, error) {
	defer observe("profit_loss", time.Now())

	_, revenueCents, err := s.repo.Totals(ctx, report.KindSales, w)
	if err != nil {
		return nil, err
	}
	_, expenseCents, err := s.repo.Totals(ctx, report.KindExpenses, w)
	if err != nil {
		return nil, err
	}

	revenue := money.FromCents(revenueCents)
	expenses := money.FromCents(expenseCents)
	net := revenue.Sub(expenses)

	return &report.ProfitLoss{
		Period:       periodOf(w),
		Revenue:      revenue,
		Expenses:     expenses,
		NetProfit:    net,
		ProfitMargin: money.Percent(net, revenue).StringFixed(money.Scale),
		Currency:     report.Currency,
	}, nil
}

// SalesAnalysis builds the daily, category, payment method and product views
func (s *ReportService) SalesAnalysis(ctx context.Context, w report.Window) (*report.SalesAnalysis, error) {
	defer observe("sales_analysis", time.Now())

	days, err := s.repo.SalesByDay(ctx, w)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.Categories(ctx, report.KindSales, w, 0)
	if err != nil {
		return nil, err
	}
	methods, err := s.repo.SalesByPaymentMethod(ctx, w)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.TopProducts(ctx, w, report.TopProductsLimit)
	if err != nil {
		return nil, err
	}

	out := &report.SalesAnalysis{
		Period:            periodOf(w),
		DailySales:        make([]report.DailySales, 0, len(days)),
		CategoryBreakdown: make([]report.CategorySales, 0, len(categories)),
		PaymentMethods:    make([]report.PaymentMethodSales, 0, len(methods)),
		TopProducts:       make([]report.ProductSales, 0, len(products)),
	}
	for _, d := range days {
		out.DailySales = append(out.DailySales, report.DailySales{
			Date:    d.Key,
			Revenue: money.FromCents(d.SumCents),
			Count:   d.Count,
		})
	}
	for _, c := range categories {
		revenue := money.FromCents(c.SumCents)
		out.CategoryBreakdown = append(out.CategoryBreakdown, report.CategorySales{
			Category:          c.Key,
			Count:             c.Count,
			Revenue:           revenue,
			AverageOrderValue: money.Mean(revenue, c.Count),
		})
	}
	for _, m := range methods {
		out.PaymentMethods = append(out.PaymentMethods, report.PaymentMethodSales{
			PaymentMethod: m.Key,
			Count:         m.Count,
			Revenue:       money.FromCents(m.SumCents),
		})
	}
	for _, p := range products {
		out.TopProducts = append(out.TopProducts, report.ProductSales{
			Product:  p.Product,
			Quantity: p.Quantity,
			Revenue:  money.FromCents(p.SumCents),
		})
	}
	return out, nil
}

// ExpenseBreakdown builds the category, monthly, recurring and vendor views
func (s *ReportService) ExpenseBreakdown(ctx context.Context, w report.Window) (*report.ExpenseBreakdown, error) {
	defer observe("expense_breakdown", time.Now())

	categories, err := s.repo.Categories(ctx, report.KindExpenses, w, 0)
	if err != nil {
		return nil, err
	}
	months, err := s.repo.ExpensesByMonth(ctx, w)
	if err != nil {
		return nil, err
	}
	recurring, err := s.repo.RecurringExpenses(ctx, w)
	if err != nil {
		return nil, err
	}
	vendors, err := s.repo.TopVendors(ctx, w, report.TopVendorsLimit)
	if err != nil {
		return nil, err
	}

	out := &report.ExpenseBreakdown{
		Period:            periodOf(w),
		CategoryBreakdown: make([]report.CategoryExpenses, 0, len(categories)),
		MonthlyTrend:      make([]report.MonthlyExpenses, 0, len(months)),
		RecurringExpenses: make([]report.RecurringExpenses, 0, len(recurring)),
		TopVendors:        make([]report.VendorExpenses, 0, len(vendors)),
	}
	for _, c := range categories {
		total := money.FromCents(c.SumCents)
		out.CategoryBreakdown = append(out.CategoryBreakdown, report.CategoryExpenses{
			Category: c.Key,
			Total:    total,
			Count:    c.Count,
			Average:  money.Mean(total, c.Count),
		})
	}
	for _, m := range months {
		year, month, err := splitMonth(m.Key)
		if err != nil {
			return nil, errors.Internal("Malformed month bucket", err)
		}
		out.MonthlyTrend = append(out.MonthlyTrend, report.MonthlyExpenses{
			Year:  year,
			Month: month,
			Total: money.FromCents(m.SumCents),
			Count: m.Count,
		})
	}
	for _, r := range recurring {
		out.RecurringExpenses = append(out.RecurringExpenses, report.RecurringExpenses{
			Category: r.Category,
			Total:    money.FromCents(r.SumCents),
			Period:   r.Period,
		})
	}
	for _, v := range vendors {
		out.TopVendors = append(out.TopVendors, report.VendorExpenses{
			Vendor: v.Key,
			Total:  money.FromCents(v.SumCents),
			Count:  v.Count,
		})
	}
	return out, nil
}

// splitMonth parses a YYYY-MM bucket key
func splitMonth(key string) (int, int, error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("month key %q", key)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// RecentTransactions merges the newest sales and expenses
func (s *ReportService) RecentTransactions(ctx context.Context, userID string, limit int) ([]report.Transaction, error) {
	if limit <= 0 {
		limit = report.RecentDefaultLimit
	}
	if limit > report.RecentMaxLimit {
		limit = report.RecentMaxLimit
	}
	half := (limit + 1) / 2

	sales, _, err := s.sales.List(ctx, userID, sale.Filter{}, half, 0)
	if err != nil {
		return nil, err
	}
	expenses, _, err := s.expenses.List(ctx, userID, expense.Filter{}, half, 0)
	if err != nil {
		return nil, err
	}

	txns := make([]report.Transaction, 0, len(sales)+len(expenses))
	for _, sl := range sales {
		txns = append(txns, report.Transaction{
			ID:          sl.ID,
			Type:        report.TransactionSale,
			Description: sl.ProductName + " - " + sl.CustomerName,
			Amount:      sl.TotalAmount,
			Category:    sl.Category,
			Date:        sl.SaleDate,
		})
	}
	for _, e := range expenses {
		txns = append(txns, report.Transaction{
			ID:          e.ID,
			Type:        report.TransactionExpense,
			Description: e.Description,
			Amount:      e.Amount,
			Category:    e.Category,
			Date:        e.ExpenseDate,
		})
	}

	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })
	if len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// Export renders a report as CSV and stores it when a store is configured
func (s *ReportService) Export(ctx context.Context, reportType report.Type, w report.Window) (*report.Export, error) {
	defer observe("export_"+string(reportType), time.Now())

	var rows [][]string
	var err error
	switch reportType {
	case report.TypeSales:
		rows, err = s.salesRows(ctx, w)
	case report.TypeExpenses:
		rows, err = s.expenseRows(ctx, w)
	case report.TypeProfitLoss:
		rows, err = s.profitLossRows(ctx, w)
	default:
		return nil, errors.BadRequest("Unknown report type")
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return nil, errors.Internal("Failed to render report", err)
	}

	period := periodOf(w)
	out := &report.Export{
		Filename:    fmt.Sprintf("%s_%s_%s.csv", reportType, period.StartDate, period.EndDate),
		ContentType: csvContentType,
		Body:        buf.Bytes(),
	}

	if s.export.Store == nil {
		metrics.RecordExport(string(reportType), "inline")
		return out, nil
	}

	key := path.Join(s.export.Prefix, w.UserID, time.Now().UTC().Format("20060102T150405"), out.Filename)
	if err := s.export.Store.Put(ctx, key, out.ContentType, out.Body); err != nil {
		s.logger.ErrorWithErr(err, "Failed to upload export")
		return nil, errors.ProviderAPIError("object storage", err)
	}
	url, err := s.export.Store.PresignGet(ctx, key, s.export.TTL)
	if err != nil {
		return nil, errors.ProviderAPIError("object storage", err)
	}
	out.URL = url
	out.ExpiresAt = time.Now().Add(s.export.TTL)
	out.Body = nil

	metrics.RecordExport(string(reportType), "s3")
	s.logger.WithFields(map[string]interface{}{
		"user_id": w.UserID,
		"report":  reportType,
		"key":     key,
	}).Info("Report exported")

	return out, nil
}

func (s *ReportService) salesRows(ctx context.Context, w report.Window) ([][]string, error) {
	rows := [][]string{{"date", "customer", "product", "category", "quantity", "unit_price", "total", "payment_method"}}
	filter := sale.Filter{StartDate: &w.Start, EndDate: &w.End}
	for offset := 0; ; offset += exportPageSize {
		items, total, err := s.sales.List(ctx, w.UserID, filter, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, sl := range items {
			rows = append(rows, []string{
				sl.SaleDate.In(time.Local).Format(validator.DateLayout),
				sl.CustomerName,
				sl.ProductName,
				sl.Category,
				strconv.Itoa(sl.Quantity),
				sl.UnitPrice.StringFixed(money.Scale),
				sl.TotalAmount.StringFixed(money.Scale),
				sl.PaymentMethod,
			})
		}
		if len(items) == 0 || int64(offset+len(items)) >= total {
			return rows, nil
		}
	}
}

func (s *ReportService) expenseRows(ctx context.Context, w report.Window) ([][]string, error) {
	rows := [][]string{{"date", "description", "category", "vendor", "amount", "payment_method", "recurring_period"}}
	filter := expense.Filter{StartDate: &w.Start, EndDate: &w.End}
	for offset := 0; ; offset += exportPageSize {
		items, total, err := s.expenses.List(ctx, w.UserID, filter, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, e := range items {
			period := ""
			if e.Recurrence != nil {
				period = string(e.Recurrence.Period)
			}
			rows = append(rows, []string{
				e.ExpenseDate.In(time.Local).Format(validator.DateLayout),
				e.Description,
				e.Category,
				e.Vendor,
				e.Amount.StringFixed(money.Scale),
				e.PaymentMethod,
				period,
			})
		}
		if len(items) == 0 || int64(offset+len(items)) >= total {
			return rows, nil
		}
	}
}

func (s *ReportService) profitLossRows(ctx context.Context, w report.Window) ([][]string, error) {
	pl, err := s.ProfitAndLoss(ctx, w)
	if err != nil {
		return nil, err
	}
	fixed := func(d decimal.Decimal) string { return d.StringFixed(money.Scale) }
	return [][]string{
		{"metric", "value"},
		{"start_date", pl.Period.StartDate},
		{"end_date", pl.Period.EndDate},
		{"revenue", fixed(pl.Revenue)},
		{"expenses", fixed(pl.Expenses)},
		{"net_profit", fixed(pl.NetProfit)},
		{"profit_margin", pl.ProfitMargin},
		{"currency", pl.Currency},
	}, nil
}
