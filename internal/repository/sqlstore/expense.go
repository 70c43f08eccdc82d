package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
)

const expenseColumns = `id, user_id, description, amount_cents, category, expense_date, payment_method,
	vendor, receipt, recurring_period, tags, notes, created_at, updated_at`

// ExpenseRepository implements expense.Repository
type ExpenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

// Create stores a new expense
func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	now := time.Now()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
		INSERT INTO expenses (id, user_id, description, amount_cents, category, expense_date, expense_day,
			payment_method, vendor, receipt, recurring_period, tags, notes, created_at, created_seq, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	amounts, err := centsOf(e.Amount)
	if err != nil {
		return err
	}

	_, err = r.db.exec(ctx, "insert", "expenses", query,
		e.ID, e.UserID, e.Description, amounts[0], e.Category,
		e.ExpenseDate.Unix(), dayOf(e.ExpenseDate), e.PaymentMethod,
		nullString(e.Vendor), nullString(e.Receipt), recurringPeriod(e.Recurrence),
		encodeList(e.Tags), nullString(e.Notes), now.Unix(), nextSeq(now), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create expense", err)
	}
	return nil
}

// GetByID retrieves an expense owned by userID
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id string) (*expense.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ? AND user_id = ?`

	e, err := scanExpense(r.db.queryRow(ctx, "expenses", query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Expense")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get expense", err)
	}
	return e, nil
}

// List retrieves expenses newest first
func (r *ExpenseRepository) List(ctx context.Context, userID string, filter expense.Filter, limit, offset int) ([]*expense.Expense, int64, error) {
	var where conditions
	where.add("user_id = ?", userID)
	if filter.StartDate != nil {
		where.add("expense_date >= ?", filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		where.add("expense_date <= ?", filter.EndDate.Unix())
	}
	if filter.Category != "" {
		where.add("category = ?", filter.Category)
	}
	if filter.MinAmount != nil {
		where.add("amount_cents >= ?", boundCents(*filter.MinAmount))
	}
	if filter.MaxAmount != nil {
		where.add("amount_cents <= ?", boundCents(*filter.MaxAmount))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM expenses WHERE ` + where.String()
	if err := r.db.queryRow(ctx, "expenses", countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count expenses", err)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + where.String() + `
		ORDER BY expense_date DESC, created_at DESC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.query(ctx, "expenses", query, append(where.args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list expenses", err)
	}
	defer rows.Close()

	expenses := []*expense.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list expenses", err)
	}
	return expenses, total, nil
}

// Update overwrites an expense owned by e.UserID
func (r *ExpenseRepository) Update(ctx context.Context, e *expense.Expense) error {
	e.UpdatedAt = time.Now()

	query := `
		UPDATE expenses
		SET description = ?, amount_cents = ?, category = ?, expense_date = ?, expense_day = ?,
			payment_method = ?, vendor = ?, receipt = ?, recurring_period = ?, tags = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	amounts, err := centsOf(e.Amount)
	if err != nil {
		return err
	}

	result, err := r.db.exec(ctx, "update", "expenses", query,
		e.Description, amounts[0], e.Category, e.ExpenseDate.Unix(), dayOf(e.ExpenseDate),
		e.PaymentMethod, nullString(e.Vendor), nullString(e.Receipt), recurringPeriod(e.Recurrence),
		encodeList(e.Tags), nullString(e.Notes), e.UpdatedAt.Unix(), e.ID, e.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update expense", err)
	}
	return expectOne(result, "Expense")
}

// Delete removes an expense owned by userID
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.exec(ctx, "delete", "expenses", `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.DatabaseError("Failed to delete expense", err)
	}
	return expectOne(result, "Expense")
}

func recurringPeriod(r *expense.Recurrence) interface{} {
	if r == nil {
		return nil
	}
	return string(r.Period)
}

func scanExpense(s scanner) (*expense.Expense, error) {
	var out expense.Expense
	var amountCents, expenseDate, createdAt, updatedAt int64
	var vendor, receipt, period, notes sql.NullString
	var tags string

	err := s.Scan(
		&out.ID, &out.UserID, &out.Description, &amountCents, &out.Category, &expenseDate, &out.PaymentMethod,
		&vendor, &receipt, &period, &tags, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	out.Amount = money.FromCents(amountCents)
	out.ExpenseDate = time.Unix(expenseDate, 0)
	out.Vendor = vendor.String
	out.Receipt = receipt.String
	if period.Valid && period.String != "" {
		out.Recurrence = &expense.Recurrence{Period: expense.Period(period.String)}
	}
	out.Tags = decodeList(tags)
	out.Notes = notes.String
	out.CreatedAt = time.Unix(createdAt, 0)
	out.UpdatedAt = time.Unix(updatedAt, 0)
	return &out, nil
}
