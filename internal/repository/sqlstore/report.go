package sqlstore

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

// ledger maps a report kind onto its table and columns
type ledger struct {
	table  string
	amount string
	date   string
}

var ledgers = map[report.Kind]ledger{
	report.KindSales:    {table: "sales", amount: "total_cents", date: "sale_date"},
	report.KindExpenses: {table: "expenses", amount: "amount_cents", date: "expense_date"},
}

// ReportRepository implements report.Repository with GROUP BY queries
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) report.Repository {
	return &ReportRepository{db: db}
}

func ledgerFor(kind report.Kind) (ledger, error) {
	l, ok := ledgers[kind]
	if !ok {
		return ledger{}, errors.BadRequest(fmt.Sprintf("Unknown report kind: %s", kind))
	}
	return l, nil
}

func (l ledger) window() string {
	return "user_id = ? AND " + l.date + " >= ? AND " + l.date + " <= ?"
}

func windowArgs(w report.Window) []interface{} {
	return []interface{}{w.UserID, w.Start.Unix(), w.End.Unix()}
}

// Totals returns the record count and summed amount of a ledger
func (r *ReportRepository) Totals(ctx context.Context, kind report.Kind, w report.Window) (int64, int64, error) {
	l, err := ledgerFor(kind)
	if err != nil {
		return 0, 0, err
	}

	query := `SELECT COUNT(*), COALESCE(SUM(` + l.amount + `), 0) FROM ` + l.table + ` WHERE ` + l.window()

	var count, sum int64
	if err := r.db.queryRow(ctx, l.table, query, windowArgs(w)...).Scan(&count, &sum); err != nil {
		return 0, 0, errors.DatabaseError("Failed to total "+l.table, err)
	}
	return count, sum, nil
}

// Categories groups a ledger by category, largest sum first
func (r *ReportRepository) Categories(ctx context.Context, kind report.Kind, w report.Window, limit int) ([]report.Bucket, error) {
	l, err := ledgerFor(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT category, COUNT(*), COALESCE(SUM(` + l.amount + `), 0)
		FROM ` + l.table + `
		WHERE ` + l.window() + `
		GROUP BY category
		ORDER BY SUM(` + l.amount + `) DESC, MIN(created_seq) ASC, category ASC`
	args := windowArgs(w)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.buckets(ctx, l.table, query, args...)
}

// SalesByDay groups sales by calendar day, ascending
func (r *ReportRepository) SalesByDay(ctx context.Context, w report.Window) ([]report.Bucket, error) {
	query := `
		SELECT sale_day, COUNT(*), COALESCE(SUM(total_cents), 0)
		FROM sales
		WHERE ` + ledgers[report.KindSales].window() + `
		GROUP BY sale_day
		ORDER BY sale_day ASC`
	return r.buckets(ctx, "sales", query, windowArgs(w)...)
}

// SalesByPaymentMethod groups sales by payment method, largest revenue first
func (r *ReportRepository) SalesByPaymentMethod(ctx context.Context, w report.Window) ([]report.Bucket, error) {
	query := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total_cents), 0)
		FROM sales
		WHERE ` + ledgers[report.KindSales].window() + `
		GROUP BY payment_method
		ORDER BY SUM(total_cents) DESC, payment_method ASC`
	return r.buckets(ctx, "sales", query, windowArgs(w)...)
}

// TopProducts ranks products by revenue
func (r *ReportRepository) TopProducts(ctx context.Context, w report.Window, limit int) ([]report.ProductBucket, error) {
	query := `
		SELECT product_name, COALESCE(SUM(quantity), 0), COALESCE(SUM(total_cents), 0)
		FROM sales
		WHERE ` + ledgers[report.KindSales].window() + `
		GROUP BY product_name
		ORDER BY SUM(total_cents) DESC, MIN(created_seq) ASC, product_name ASC
		LIMIT ?`

	rows, err := r.db.query(ctx, "sales", query, append(windowArgs(w), limit)...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to rank products", err)
	}
	defer rows.Close()

	products := []report.ProductBucket{}
	for rows.Next() {
		var p report.ProductBucket
		if err := rows.Scan(&p.Product, &p.Quantity, &p.SumCents); err != nil {
			return nil, errors.DatabaseError("Failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to rank products", err)
	}
	return products, nil
}

// ExpensesByMonth groups expenses by YYYY-MM, ascending
func (r *ReportRepository) ExpensesByMonth(ctx context.Context, w report.Window) ([]report.Bucket, error) {
	query := `
		SELECT SUBSTR(expense_day, 1, 7) AS month, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE ` + ledgers[report.KindExpenses].window() + `
		GROUP BY SUBSTR(expense_day, 1, 7)
		ORDER BY month ASC`
	return r.buckets(ctx, "expenses", query, windowArgs(w)...)
}

// RecurringExpenses groups recurring expenses by category
func (r *ReportRepository) RecurringExpenses(ctx context.Context, w report.Window) ([]report.RecurringBucket, error) {
	query := `
		SELECT category, MIN(recurring_period), COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE ` + ledgers[report.KindExpenses].window() + ` AND recurring_period IS NOT NULL
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC, MIN(created_seq) ASC, category ASC`

	rows, err := r.db.query(ctx, "expenses", query, windowArgs(w)...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to group recurring expenses", err)
	}
	defer rows.Close()

	out := []report.RecurringBucket{}
	for rows.Next() {
		var b report.RecurringBucket
		if err := rows.Scan(&b.Category, &b.Period, &b.SumCents); err != nil {
			return nil, errors.DatabaseError("Failed to scan recurring expense", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to group recurring expenses", err)
	}
	return out, nil
}

// TopVendors ranks vendors by spend, skipping expenses without a vendor
func (r *ReportRepository) TopVendors(ctx context.Context, w report.Window, limit int) ([]report.Bucket, error) {
	query := `
		SELECT vendor, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE ` + ledgers[report.KindExpenses].window() + ` AND vendor IS NOT NULL AND vendor <> ''
		GROUP BY vendor
		ORDER BY SUM(amount_cents) DESC, MIN(created_seq) ASC, vendor ASC
		LIMIT ?`
	return r.buckets(ctx, "expenses", query, append(windowArgs(w), limit)...)
}

func (r *ReportRepository) buckets(ctx context.Context, table, query string, args ...interface{}) ([]report.Bucket, error) {
	rows, err := r.db.query(ctx, table, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to aggregate "+table, err)
	}
	defer rows.Close()

	out := []report.Bucket{}
	for rows.Next() {
		var b report.Bucket
		if err := rows.Scan(&b.Key, &b.Count, &b.SumCents); err != nil {
			return nil, errors.DatabaseError("Failed to scan "+table+" aggregate", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to aggregate "+table, err)
	}
	return out, nil
}
