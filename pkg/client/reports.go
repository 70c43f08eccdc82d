package client

import (
	"context"
	"mime"
	"net/url"
	"strconv"
	"strings"
)

// ReportService handles reporting calls
type ReportService struct {
	client *Client
}

func rangeQuery(startDate, endDate string) url.Values {
	return url.Values{"startDate": {startDate}, "endDate": {endDate}}
}

// ProfitLoss compares revenue and expenses over a date range
func (s *ReportService) ProfitLoss(ctx context.Context, startDate, endDate string) (*ProfitLoss, error) {
	var pl ProfitLoss
	path := withQuery(apiPrefix+"/reports/profit-loss", rangeQuery(startDate, endDate))
	if err := s.client.doRequest(ctx, "GET", path, nil, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// SalesAnalysis breaks sales down by day, category, payment method and product
func (s *ReportService) SalesAnalysis(ctx context.Context, startDate, endDate string) (*SalesAnalysis, error) {
	var analysis SalesAnalysis
	path := withQuery(apiPrefix+"/reports/sales-analysis", rangeQuery(startDate, endDate))
	if err := s.client.doRequest(ctx, "GET", path, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ExpenseBreakdown breaks expenses down by category, month and vendor
func (s *ReportService) ExpenseBreakdown(ctx context.Context, startDate, endDate string) (*ExpenseBreakdown, error) {
	var breakdown ExpenseBreakdown
	path := withQuery(apiPrefix+"/reports/expense-breakdown", rangeQuery(startDate, endDate))
	if err := s.client.doRequest(ctx, "GET", path, nil, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// RecentTransactions returns the latest sales and expenses, newest first.
// limit <= 0 uses the server default.
func (s *ReportService) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var txs []Transaction
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/dashboard/recent-transactions", query), nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Export renders a report as CSV. The server answers either with a download
// link or with the file itself, in which case Body holds it.
func (s *ReportService) Export(ctx context.Context, reportType, startDate, endDate string) (*Export, error) {
	query := rangeQuery(startDate, endDate)
	query.Set("reportType", reportType)

	req, err := s.client.newRequest(ctx, "GET", withQuery(apiPrefix+"/reports/export", query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/csv")

	resp, body, err := s.client.do(req)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		export := &Export{Body: body}
		if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
			export.Filename = params["filename"]
		}
		return export, nil
	}

	var export Export
	if err := decodeData(body, &export); err != nil {
		return nil, err
	}
	return &export, nil
}
