package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
	"github.com/pratik-mahalle/bizlytic/internal/realtime"
)

// SaleService implements sale.Service
type SaleService struct {
	repo      sale.Repository
	publisher realtime.Publisher
	logger    *logger.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(repo sale.Repository, publisher realtime.Publisher, log *logger.Logger) sale.Service {
	return &SaleService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func checkSale(s *sale.Sale) error {
	if s.Quantity < 1 {
		return fieldError("quantity", "min", "quantity must be at least 1")
	}
	if s.UnitPrice.IsNegative() {
		return fieldError("unitPrice", "gte", "unitPrice must be at least 0")
	}
	if err := s.CheckAmounts(); err != nil {
		return fieldError("unitPrice", "lte", err.Error())
	}
	return nil
}

// Create records a sale; the total is derived, never taken from input
func (s *SaleService) Create(ctx context.Context, sl *sale.Sale) error {
	if sl.PaymentMethod == "" {
		sl.PaymentMethod = sale.DefaultPaymentMethod
	}
	if sl.SaleDate.IsZero() {
		sl.SaleDate = time.Now()
	}
	if sl.Tags == nil {
		sl.Tags = []string{}
	}
	sl.Recalculate()
	if err := checkSale(sl); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, sl); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create sale")
		return err
	}

	metrics.RecordWrite("sale", opCreate)
	s.publisher.Publish(sl.UserID, realtime.EventSaleAdded, sl)
	s.logger.WithFields(map[string]interface{}{
		"user_id": sl.UserID,
		"sale_id": sl.ID,
		"total":   sl.TotalAmount.String(),
	}).Info("Sale recorded")

	return nil
}

// Get retrieves a sale owned by userID
func (s *SaleService) Get(ctx context.Context, userID, id string) (*sale.Sale, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List retrieves sales with filters and pagination
func (s *SaleService) List(ctx context.Context, userID string, filter sale.Filter, limit, offset int) ([]*sale.Sale, int64, error) {
	return s.repo.List(ctx, userID, filter, limit, offset)
}

// Update applies a partial edit and re-derives the total
func (s *SaleService) Update(ctx context.Context, userID, id string, update sale.Update) (*sale.Sale, error) {
	sl, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sl.Apply(update)
	if err := checkSale(sl); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sl); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update sale")
		return nil, err
	}

	metrics.RecordWrite("sale", opUpdate)
	s.publisher.Publish(userID, realtime.EventSaleUpdated, sl)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"sale_id": id,
	}).Info("Sale updated")

	return sl, nil
}

// Delete removes a sale
func (s *SaleService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	metrics.RecordWrite("sale", opDelete)
	s.publisher.Publish(userID, realtime.EventSaleDeleted, deletedPayload{ID: id})
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"sale_id": id,
	}).Info("Sale deleted")

	return nil
}
