package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
)

const saleColumns = `id, user_id, customer_name, product_name, quantity, unit_price_cents, total_cents,
	payment_method, sale_date, category, notes, tags, created_at, updated_at`

// SaleRepository implements sale.Repository
type SaleRepository struct {
	db *DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *DB) sale.Repository {
	return &SaleRepository{db: db}
}

// Create stores a new sale
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	now := time.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO sales (id, user_id, customer_name, product_name, quantity, unit_price_cents, total_cents,
			payment_method, sale_date, sale_day, category, notes, tags, created_at, created_seq, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	amounts, err := centsOf(s.UnitPrice, s.TotalAmount)
	if err != nil {
		return err
	}

	_, err = r.db.exec(ctx, "insert", "sales", query,
		s.ID, s.UserID, s.CustomerName, s.ProductName, s.Quantity,
		amounts[0], amounts[1],
		s.PaymentMethod, s.SaleDate.Unix(), dayOf(s.SaleDate), s.Category, nullString(s.Notes),
		encodeList(s.Tags), now.Unix(), nextSeq(now), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create sale", err)
	}
	return nil
}

// GetByID retrieves a sale owned by userID
func (r *SaleRepository) GetByID(ctx context.Context, userID, id string) (*sale.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = ? AND user_id = ?`

	s, err := scanSale(r.db.queryRow(ctx, "sales", query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Sale")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get sale", err)
	}
	return s, nil
}

// List retrieves sales newest first
func (r *SaleRepository) List(ctx context.Context, userID string, filter sale.Filter, limit, offset int) ([]*sale.Sale, int64, error) {
	var where conditions
	where.add("user_id = ?", userID)
	if filter.StartDate != nil {
		where.add("sale_date >= ?", filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		where.add("sale_date <= ?", filter.EndDate.Unix())
	}
	if filter.Category != "" {
		where.add("category = ?", filter.Category)
	}
	if filter.CustomerName != "" {
		where.add("LOWER(customer_name) LIKE ?", likePattern(filter.CustomerName))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM sales WHERE ` + where.String()
	if err := r.db.queryRow(ctx, "sales", countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count sales", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE ` + where.String() + `
		ORDER BY sale_date DESC, created_at DESC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.query(ctx, "sales", query, append(where.args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list sales", err)
	}
	defer rows.Close()

	sales := []*sale.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan sale", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list sales", err)
	}
	return sales, total, nil
}

// Update overwrites a sale owned by s.UserID
func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	s.UpdatedAt = time.Now()

	query := `
		UPDATE sales
		SET customer_name = ?, product_name = ?, quantity = ?, unit_price_cents = ?, total_cents = ?,
			payment_method = ?, sale_date = ?, sale_day = ?, category = ?, notes = ?, tags = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	amounts, err := centsOf(s.UnitPrice, s.TotalAmount)
	if err != nil {
		return err
	}

	result, err := r.db.exec(ctx, "update", "sales", query,
		s.CustomerName, s.ProductName, s.Quantity, amounts[0], amounts[1],
		s.PaymentMethod, s.SaleDate.Unix(), dayOf(s.SaleDate), s.Category, nullString(s.Notes),
		encodeList(s.Tags), s.UpdatedAt.Unix(), s.ID, s.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update sale", err)
	}
	return expectOne(result, "Sale")
}

// Delete removes a sale owned by userID
func (r *SaleRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.exec(ctx, "delete", "sales", `DELETE FROM sales WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.DatabaseError("Failed to delete sale", err)
	}
	return expectOne(result, "Sale")
}

func scanSale(s scanner) (*sale.Sale, error) {
	var out sale.Sale
	var priceCents, totalCents, saleDate, createdAt, updatedAt int64
	var notes sql.NullString
	var tags string

	err := s.Scan(
		&out.ID, &out.UserID, &out.CustomerName, &out.ProductName, &out.Quantity, &priceCents, &totalCents,
		&out.PaymentMethod, &saleDate, &out.Category, &notes, &tags, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	out.UnitPrice = money.FromCents(priceCents)
	out.TotalAmount = money.FromCents(totalCents)
	out.SaleDate = time.Unix(saleDate, 0)
	out.Notes = notes.String
	out.Tags = decodeList(tags)
	out.CreatedAt = time.Unix(createdAt, 0)
	out.UpdatedAt = time.Unix(updatedAt, 0)
	return &out, nil
}

func expectOne(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}
