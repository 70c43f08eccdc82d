package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/bizlytic/pkg/client"
)

func newExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and browse expenses",
	}

	cmd.AddCommand(newExpenseListCmd())
	cmd.AddCommand(newExpenseAddCmd())
	cmd.AddCommand(newExpenseDeleteCmd())
	cmd.AddCommand(newExpenseSummaryCmd())

	return cmd
}

func newExpenseListCmd() *cobra.Command {
	var opts client.ExpenseListOptions
	var minAmount, maxAmount string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range []struct {
				raw string
				dst **decimal.Decimal
			}{{minAmount, &opts.MinAmount}, {maxAmount, &opts.MaxAmount}} {
				if b.raw == "" {
					continue
				}
				d, err := decimal.NewFromString(b.raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", b.raw, err)
				}
				*b.dst = &d
			}

			list, err := apiClient.Expenses().List(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(list)
			}

			t := NewTable("ID", "DATE", "DESCRIPTION", "AMOUNT", "CATEGORY", "VENDOR", "RECURRING")
			for _, e := range list.Items {
				recurring := "-"
				if e.IsRecurring {
					recurring = e.RecurringPeriod
				}
				t.AddRow(
					e.ID,
					formatDate(e.ExpenseDate),
					truncate(e.Description, 30),
					formatMoney(e.Amount),
					e.Category,
					truncate(e.Vendor, 20),
					recurring,
				)
			}
			t.Render()
			fmt.Printf("\nPage %d of %d (%d expenses)\n", list.Pagination.Page, list.Pagination.Pages, list.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "page size")
	cmd.Flags().StringVar(&opts.StartDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&minAmount, "min", "", "minimum amount")
	cmd.Flags().StringVar(&maxAmount, "max", "", "maximum amount")

	return cmd
}

func newExpenseAddCmd() *cobra.Command {
	var req client.CreateExpenseRequest
	var amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			req.Amount = d
			req.IsRecurring = req.RecurringPeriod != ""

			e, err := apiClient.Expenses().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to record expense: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(e)
			}
			fmt.Printf("Recorded expense %s: %s\n", e.ID, formatMoney(e.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	cmd.Flags().StringVar(&amount, "amount", "", "amount")
	cmd.Flags().StringVar(&req.Category, "category", "", "category")
	cmd.Flags().StringVar(&req.Vendor, "vendor", "", "vendor")
	cmd.Flags().StringVar(&req.PaymentMethod, "payment", "", "payment method (cash, card, transfer, other)")
	cmd.Flags().StringVar(&req.ExpenseDate, "date", "", "expense date (default now)")
	cmd.Flags().StringVar(&req.RecurringPeriod, "recurring", "", "recurrence (weekly, monthly, quarterly, yearly)")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "notes")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newExpenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Expenses().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}
			fmt.Printf("Deleted expense %s\n", args[0])
			return nil
		},
	}
}

func newExpenseSummaryCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show expense totals and top categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Expenses().Summary(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("failed to get expense summary: %w", err)
			}
			return printSummary("expenses", summary)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date, inclusive (YYYY-MM-DD)")

	return cmd
}
