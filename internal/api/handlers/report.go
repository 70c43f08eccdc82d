package handlers

import (
	"mime"
	"net/http"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// ReportHandler handles report and dashboard requests
type ReportHandler struct {
	service report.Service
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service report.Service, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  log,
	}
}

// ProfitLoss compares revenue and expenses
// @Summary Profit and loss
// @Tags Reports
// @Produce json
// @Param startDate query string true "Start date"
// @Param endDate query string true "End date (inclusive)"
// @Success 200 {object} report.ProfitLoss
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid dates"
// @Security BearerAuth
// @Router /reports/profit-loss [get]
func (h *ReportHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	win, ok := parseWindow(w, r, userID, true)
	if !ok {
		return
	}

	pl, err := h.service.ProfitAndLoss(r.Context(), win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to build profit and loss report")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, pl)
}

// SalesAnalysis returns the sales breakdown
// @Summary Sales analysis
// @Description Daily series, category and payment method breakdowns, top products
// @Tags Reports
// @Produce json
// @Param startDate query string true "Start date"
// @Param endDate query string true "End date (inclusive)"
// @Success 200 {object} report.SalesAnalysis
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid dates"
// @Security BearerAuth
// @Router /reports/sales-analysis [get]
func (h *ReportHandler) SalesAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	win, ok := parseWindow(w, r, userID, true)
	if !ok {
		return
	}

	analysis, err := h.service.SalesAnalysis(r.Context(), win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to build sales analysis")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, analysis)
}

// ExpenseBreakdown returns the expense breakdown
// @Summary Expense breakdown
// @Description Category breakdown, monthly trend, recurring expenses, top vendors
// @Tags Reports
// @Produce json
// @Param startDate query string true "Start date"
// @Param endDate query string true "End date (inclusive)"
// @Success 200 {object} report.ExpenseBreakdown
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid dates"
// @Security BearerAuth
// @Router /reports/expense-breakdown [get]
func (h *ReportHandler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	win, ok := parseWindow(w, r, userID, true)
	if !ok {
		return
	}

	breakdown, err := h.service.ExpenseBreakdown(r.Context(), win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to build expense breakdown")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, breakdown)
}

// Export renders a report as CSV
// @Summary Export a report
// @Description Returns a download link when object storage is configured, otherwise the CSV itself
// @Tags Reports
// @Produce json,text/csv
// @Param reportType query string true "sales, expenses or profit-loss"
// @Param startDate query string true "Start date"
// @Param endDate query string true "End date (inclusive)"
// @Success 200 {object} dto.ExportResponse
// @Failure 403 {object} utils.ErrorResponse "Pro plan required"
// @Security BearerAuth
// @Router /reports/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reportType := r.URL.Query().Get("reportType")
	if !report.IsValidType(reportType) {
		validationFailed(w, validator.Field("reportType", "oneof", "reportType must be one of [sales expenses profit-loss]"))
		return
	}
	win, ok := parseWindow(w, r, userID, true)
	if !ok {
		return
	}

	export, err := h.service.Export(r.Context(), report.Type(reportType), win)
	if err != nil {
		respondError(w, h.logger, err, "Failed to export report")
		return
	}

	if export.URL != "" {
		utils.WriteSuccessWithMessage(w, http.StatusOK, "Export generated successfully", dto.ExportResponse{
			Filename:  export.Filename,
			URL:       export.URL,
			ExpiresAt: export.ExpiresAt.UTC().Format(time.RFC3339),
		})
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", attachment(export.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Body); err != nil {
		h.logger.WithError(err).Warn("Failed to write export body")
	}
}

// RecentTransactions merges the latest sales and expenses
// @Summary Recent transactions
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Number of transactions (1-50, default 10)"
// @Success 200 {array} report.Transaction
// @Security BearerAuth
// @Router /dashboard/recent-transactions [get]
func (h *ReportHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := utils.ParseIntQuery(r.URL.Query().Get("limit"), report.RecentDefaultLimit)
	txs, err := h.service.RecentTransactions(r.Context(), userID, limit)
	if err != nil {
		respondError(w, h.logger, err, "Failed to load recent transactions")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, txs)
}

// attachment builds an RFC 6266 Content-Disposition value for filename
func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
