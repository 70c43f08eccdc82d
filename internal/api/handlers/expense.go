package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// ExpenseHandler handles expense ledger requests
type ExpenseHandler struct {
	service   expense.Service
	reports   report.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(service expense.Service, reports report.Service, log *logger.Logger, val *validator.Validator) *ExpenseHandler {
	return &ExpenseHandler{
		service:   service,
		reports:   reports,
		logger:    log,
		validator: val,
	}
}

// Create records an expense
// @Summary Record an expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} expense.Expense
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	rec, err := expense.NewRecurrence(req.IsRecurring, req.RecurringPeriod)
	if err != nil {
		tag := "required_if"
		if stderrors.Is(err, expense.ErrInvalidPeriod) {
			tag = "oneof"
		}
		validationFailed(w, validator.Field("recurringPeriod", tag, err.Error()))
		return
	}

	e := req.ToExpense(userID, parseDate(req.ExpenseDate, time.Now()), rec)
	if err := h.service.Create(r.Context(), e); err != nil {
		respondError(w, h.logger, err, "Failed to create expense")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Expense created successfully", e)
}

// List lists expenses
// @Summary List expenses
// @Description Newest first, with date range, category and amount filters
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date (inclusive)"
// @Param category query string false "Category"
// @Param minAmount query number false "Minimum amount"
// @Param maxAmount query number false "Maximum amount"
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}
	filter := expense.Filter{
		StartDate: start,
		EndDate:   end,
		Category:  r.URL.Query().Get("category"),
	}

	var errs []validator.ValidationError
	bounds := []struct {
		field string
		dst   **decimal.Decimal
	}{
		{"minAmount", &filter.MinAmount},
		{"maxAmount", &filter.MaxAmount},
	}
	for _, b := range bounds {
		field := b.field
		raw := r.URL.Query().Get(field)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, validator.Field(field, "numeric", field+" must be a number"))
			continue
		}
		*b.dst = &d
	}
	if len(errs) > 0 {
		validationFailed(w, errs...)
		return
	}

	params := utils.ParsePaginationParams(r)
	expenses, total, err := h.service.List(r.Context(), userID, filter, params.Limit, params.Offset)
	if err != nil {
		respondError(w, h.logger, err, "Failed to list expenses")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(expenses, params, total))
}

// Get returns one expense
// @Summary Get an expense
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} expense.Expense
// @Failure 404 {object} utils.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get expense")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, e)
}

// Update edits an expense
// @Summary Update an expense
// @Description Partial edit; a recurring expense must keep a valid period
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body dto.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} expense.Expense
// @Failure 404 {object} utils.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	e, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req.ToUpdate(parseOptionalDate(req.ExpenseDate)))
	if err != nil {
		respondError(w, h.logger, err, "Failed to update expense")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Expense updated successfully", e)
}

// Delete removes an expense
// @Summary Delete an expense
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err, "Failed to delete expense")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Expense deleted successfully", nil)
}

// Summary returns count, sum, mean and top categories of expenses
// @Summary Expense summary
// @Tags Expenses
// @Produce json
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date (inclusive)"
// @Success 200 {object} report.Summary
// @Security BearerAuth
// @Router /expenses/stats/summary [get]
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	win, ok := parseWindow(w, r, userID, false)
	if !ok {
		return
	}

	summary, err := h.reports.Summarize(r.Context(), report.KindExpenses, win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to summarize expenses")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}
