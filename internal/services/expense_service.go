package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
	"github.com/pratik-mahalle/bizlytic/internal/realtime"
)

// ExpenseService implements expense.Service
type ExpenseService struct {
	repo      expense.Repository
	publisher realtime.Publisher
	logger    *logger.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(repo expense.Repository, publisher realtime.Publisher, log *logger.Logger) expense.Service {
	return &ExpenseService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func checkExpense(e *expense.Expense) error {
	if !e.Amount.IsPositive() {
		return fieldError("amount", "gt", "amount must be greater than 0")
	}
	if err := e.CheckAmount(); err != nil {
		return fieldError("amount", "lte", err.Error())
	}
	return nil
}

// recurrenceError reports an invalid recurrence against the recurringPeriod field
func recurrenceError(err error) error {
	tag := "required_if"
	if stderrors.Is(err, expense.ErrInvalidPeriod) {
		tag = "oneof"
	}
	return fieldError("recurringPeriod", tag, err.Error())
}

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, e *expense.Expense) error {
	if e.PaymentMethod == "" {
		e.PaymentMethod = expense.DefaultPaymentMethod
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.Normalize()
	if err := checkExpense(e); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create expense")
		return err
	}

	metrics.RecordWrite("expense", opCreate)
	s.publisher.Publish(e.UserID, realtime.EventExpenseAdded, e)
	s.logger.WithFields(map[string]interface{}{
		"user_id":    e.UserID,
		"expense_id": e.ID,
		"amount":     e.Amount.String(),
		"recurring":  e.IsRecurring(),
	}).Info("Expense recorded")

	return nil
}

// Get retrieves an expense owned by userID
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*expense.Expense, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List retrieves expenses with filters and pagination
func (s *ExpenseService) List(ctx context.Context, userID string, filter expense.Filter, limit, offset int) ([]*expense.Expense, int64, error) {
	return s.repo.List(ctx, userID, filter, limit, offset)
}

// Update applies a partial edit; the merged recurrence must stay valid
func (s *ExpenseService) Update(ctx context.Context, userID, id string, update expense.Update) (*expense.Expense, error) {
	e, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := e.Apply(update); err != nil {
		return nil, recurrenceError(err)
	}
	if err := checkExpense(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update expense")
		return nil, err
	}

	metrics.RecordWrite("expense", opUpdate)
	s.publisher.Publish(userID, realtime.EventExpenseUpdated, e)
	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"expense_id": id,
	}).Info("Expense updated")

	return e, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	metrics.RecordWrite("expense", opDelete)
	s.publisher.Publish(userID, realtime.EventExpenseDeleted, deletedPayload{ID: id})
	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"expense_id": id,
	}).Info("Expense deleted")

	return nil
}
