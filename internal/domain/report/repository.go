package report

import "context"

// Bucket is one grouped row: a key with its record count and summed minor units
type Bucket struct {
	Key      string
	Count    int64
	SumCents int64
}

// ProductBucket is a product with its sold quantity and revenue
type ProductBucket struct {
	Product  string
	Quantity int64
	SumCents int64
}

// RecurringBucket is the recurring spend of one category
type RecurringBucket struct {
	Category string
	Period   string
	SumCents int64
}

// Repository runs read-only aggregation queries. Every method is scoped to
// w.UserID and to the inclusive window [w.Start, w.End].
type Repository interface {
	// Totals returns the record count and summed amount of a ledger
	Totals(ctx context.Context, kind Kind, w Window) (count, sumCents int64, err error)

	// Categories groups a ledger by category, largest sum first. Equal sums keep
	// the order in which the categories first appeared. limit <= 0 means all.
	Categories(ctx context.Context, kind Kind, w Window, limit int) ([]Bucket, error)

	// SalesByDay groups sales by YYYY-MM-DD, ascending
	SalesByDay(ctx context.Context, w Window) ([]Bucket, error)

	// SalesByPaymentMethod groups sales by payment method
	SalesByPaymentMethod(ctx context.Context, w Window) ([]Bucket, error)

	// TopProducts ranks products by revenue
	TopProducts(ctx context.Context, w Window, limit int) ([]ProductBucket, error)

	// ExpensesByMonth groups expenses by YYYY-MM, ascending
	ExpensesByMonth(ctx context.Context, w Window) ([]Bucket, error)

	// RecurringExpenses groups recurring expenses by category
	RecurringExpenses(ctx context.Context, w Window) ([]RecurringBucket, error)

	// TopVendors ranks vendors by spend, skipping expenses without a vendor
	TopVendors(ctx context.Context, w Window, limit int) ([]Bucket, error)
}
