package report

import (
	"context"
	"time"
)

// Service defines the aggregation engine. Every method is read-only.
type Service interface {
	Summarize(ctx context.Context, kind Kind, w Window) (*Summary, error)
	ProfitAndLoss(ctx context.Context, w Window) (*ProfitLoss, error)
	SalesAnalysis(ctx context.Context, w Window) (*SalesAnalysis, error)
	ExpenseBreakdown(ctx context.Context, w Window) (*ExpenseBreakdown, error)

	// RecentTransactions merges the newest sales and expenses, newest first
	RecentTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error)

	// Export renders a report as CSV and, when storage is configured, uploads it
	Export(ctx context.Context, reportType Type, w Window) (*Export, error)
}

// ArtifactStore keeps exported report files and hands out time-limited links
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
