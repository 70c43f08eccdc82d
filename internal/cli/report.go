package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run financial reports",
	}

	cmd.PersistentFlags().String("from", "", "start date (YYYY-MM-DD, default first of this month)")
	cmd.PersistentFlags().String("to", "", "end date, inclusive (YYYY-MM-DD, default today)")

	cmd.AddCommand(newReportProfitLossCmd())
	cmd.AddCommand(newReportSalesCmd())
	cmd.AddCommand(newReportExpensesCmd())
	cmd.AddCommand(newReportRecentCmd())
	cmd.AddCommand(newReportExportCmd())

	return cmd
}

// reportRange reads --from/--to, defaulting to month to date
func reportRange(cmd *cobra.Command) (string, string) {
	start, end := monthToDate(time.Now())
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		start = v
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		end = v
	}
	return start, end
}

func newReportProfitLossCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profit-loss",
		Aliases: []string{"pl"},
		Short:   "Compare revenue and expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := reportRange(cmd)
			pl, err := apiClient.Reports().ProfitLoss(context.Background(), start, end)
			if err != nil {
				return fmt.Errorf("failed to get profit and loss: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(pl)
			}

			fmt.Printf("Period:     %s to %s\n", pl.Period.StartDate, pl.Period.EndDate)
			fmt.Printf("Revenue:    %s %s\n", formatMoney(pl.Revenue), pl.Currency)
			fmt.Printf("Expenses:   %s %s\n", formatMoney(pl.Expenses), pl.Currency)
			fmt.Printf("Net profit: %s %s\n", formatMoney(pl.NetProfit), pl.Currency)
			fmt.Printf("Margin:     %s%%\n", pl.ProfitMargin)
			return nil
		},
	}
}

func newReportSalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sales",
		Short: "Break sales down by category, payment method and product",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := reportRange(cmd)
			a, err := apiClient.Reports().SalesAnalysis(context.Background(), start, end)
			if err != nil {
				return fmt.Errorf("failed to get sales analysis: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}

			fmt.Printf("Sales %s to %s\n\n", a.Period.StartDate, a.Period.EndDate)
			t := NewTable("CATEGORY", "COUNT", "REVENUE", "AVG ORDER")
			for _, c := range a.CategoryBreakdown {
				t.AddRow(c.Category, fmt.Sprintf("%d", c.Count), formatMoney(c.Revenue), formatMoney(c.AverageOrderValue))
			}
			t.Render()

			fmt.Println()
			t = NewTable("PAYMENT METHOD", "COUNT", "REVENUE")
			for _, p := range a.PaymentMethods {
				t.AddRow(p.PaymentMethod, fmt.Sprintf("%d", p.Count), formatMoney(p.Revenue))
			}
			t.Render()

			fmt.Println()
			t = NewTable("PRODUCT", "QTY", "REVENUE")
			for _, p := range a.TopProducts {
				t.AddRow(truncate(p.Product, 30), fmt.Sprintf("%d", p.Quantity), formatMoney(p.Revenue))
			}
			t.Render()
			return nil
		},
	}
}

func newReportExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expenses",
		Short: "Break expenses down by category, month and vendor",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := reportRange(cmd)
			b, err := apiClient.Reports().ExpenseBreakdown(context.Background(), start, end)
			if err != nil {
				return fmt.Errorf("failed to get expense breakdown: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(b)
			}

			fmt.Printf("Expenses %s to %s\n\n", b.Period.StartDate, b.Period.EndDate)
			t := NewTable("CATEGORY", "COUNT", "TOTAL", "AVERAGE")
			for _, c := range b.CategoryBreakdown {
				t.AddRow(c.Category, fmt.Sprintf("%d", c.Count), formatMoney(c.Total), formatMoney(c.Average))
			}
			t.Render()

			fmt.Println()
			t = NewTable("MONTH", "COUNT", "TOTAL")
			for _, m := range b.MonthlyTrend {
				t.AddRow(fmt.Sprintf("%04d-%02d", m.Year, m.Month), fmt.Sprintf("%d", m.Count), formatMoney(m.Total))
			}
			t.Render()

			fmt.Println()
			t = NewTable("VENDOR", "COUNT", "TOTAL")
			for _, v := range b.TopVendors {
				t.AddRow(truncate(v.Vendor, 30), fmt.Sprintf("%d", v.Count), formatMoney(v.Total))
			}
			t.Render()
			return nil
		},
	}
}

func newReportRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the latest sales and expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := apiClient.Reports().RecentTransactions(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to get recent transactions: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(txs)
			}

			t := NewTable("DATE", "TYPE", "DESCRIPTION", "CATEGORY", "AMOUNT")
			for _, tx := range txs {
				t.AddRow(formatDate(tx.Date), tx.Type, truncate(tx.Description, 40), tx.Category, formatMoney(tx.Amount))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of transactions (max 50)")

	return cmd
}

func newReportExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export <sales|expenses|profit-loss>",
		Short: "Export a report as CSV (Pro plan)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := reportRange(cmd)
			export, err := apiClient.Reports().Export(context.Background(), args[0], start, end)
			if err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}

			if export.URL != "" {
				fmt.Printf("Download %s (expires %s):\n%s\n", export.Filename, export.ExpiresAt, export.URL)
				return nil
			}

			if outFile == "" {
				outFile = export.Filename
			}
			if err := os.WriteFile(outFile, export.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			fmt.Printf("Saved %s (%d bytes)\n", outFile, len(export.Body))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "output file (default server-suggested name)")

	return cmd
}
