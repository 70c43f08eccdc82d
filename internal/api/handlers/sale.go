package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// SaleHandler handles sale ledger requests
type SaleHandler struct {
	service   sale.Service
	reports   report.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service sale.Service, reports report.Service, log *logger.Logger, val *validator.Validator) *SaleHandler {
	return &SaleHandler{
		service:   service,
		reports:   reports,
		logger:    log,
		validator: val,
	}
}

// Create records a sale
// @Summary Record a sale
// @Description The total is always quantity x unitPrice
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body dto.CreateSaleRequest true "Sale"
// @Success 201 {object} sale.Sale
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateSaleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	s := req.ToSale(userID, parseDate(req.SaleDate, time.Now()))
	if err := h.service.Create(r.Context(), s); err != nil {
		respondError(w, h.logger, err, "Failed to create sale")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Sale created successfully", s)
}

// List lists sales
// @Summary List sales
// @Description Newest first, with date range, category and customer filters
// @Tags Sales
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date (inclusive)"
// @Param category query string false "Category"
// @Param customerName query string false "Customer name contains"
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}
	filter := sale.Filter{
		StartDate:    start,
		EndDate:      end,
		Category:     r.URL.Query().Get("category"),
		CustomerName: r.URL.Query().Get("customerName"),
	}

	params := utils.ParsePaginationParams(r)
	sales, total, err := h.service.List(r.Context(), userID, filter, params.Limit, params.Offset)
	if err != nil {
		respondError(w, h.logger, err, "Failed to list sales")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(sales, params, total))
}

// Get returns one sale
// @Summary Get a sale
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} utils.ErrorResponse "Sale not found"
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	s, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get sale")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, s)
}

// Update edits a sale
// @Summary Update a sale
// @Description Partial edit; the total is re-derived
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param request body dto.UpdateSaleRequest true "Fields to change"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} utils.ErrorResponse "Sale not found"
// @Security BearerAuth
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	s, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req.ToUpdate(parseOptionalDate(req.SaleDate)))
	if err != nil {
		respondError(w, h.logger, err, "Failed to update sale")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Sale updated successfully", s)
}

// Delete removes a sale
// @Summary Delete a sale
// @Tags Sales
// @Param id path string true "Sale ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Sale not found"
// @Security BearerAuth
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err, "Failed to delete sale")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Sale deleted successfully", nil)
}

// Summary returns count, sum, mean and top categories of sales
// @Summary Sales summary
// @Tags Sales
// @Produce json
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date (inclusive)"
// @Success 200 {object} report.Summary
// @Security BearerAuth
// @Router /sales/stats/summary [get]
func (h *SaleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	win, ok := parseWindow(w, r, userID, false)
	if !ok {
		return
	}

	summary, err := h.reports.Summarize(r.Context(), report.KindSales, win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to summarize sales")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}
