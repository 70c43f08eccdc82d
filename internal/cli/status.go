package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// monthToDate returns the first of the current month and today as ISO dates.
func monthToDate(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01-02"), now.Format("2006-01-02")
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			start, end := monthToDate(time.Now())

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if pl, err := apiClient.Reports().ProfitLoss(ctx, start, end); err == nil {
					summary["profitLoss"] = pl
				}
				if txs, err := apiClient.Reports().RecentTransactions(ctx, 5); err == nil {
					summary["recentTransactions"] = txs
				}
				if events, err := apiClient.Calendar().Today(ctx); err == nil {
					summary["todayEvents"] = len(events)
				}
				return printOutput(summary)
			}

			fmt.Println("Bizlytic Dashboard")
			fmt.Println(strings.Repeat("=", 40))

			pl, err := apiClient.Reports().ProfitLoss(ctx, start, end)
			if err != nil {
				fmt.Printf("  Month to date: (error: %v)\n", err)
			} else {
				fmt.Printf("  Revenue:       %s %s\n", formatMoney(pl.Revenue), pl.Currency)
				fmt.Printf("  Expenses:      %s %s\n", formatMoney(pl.Expenses), pl.Currency)
				fmt.Printf("  Net profit:    %s %s (%s%% margin)\n", formatMoney(pl.NetProfit), pl.Currency, pl.ProfitMargin)
			}

			events, err := apiClient.Calendar().Today(ctx)
			if err != nil {
				fmt.Printf("  Today:         (error: %v)\n", err)
			} else {
				fmt.Printf("  Today:         %d event(s)\n", len(events))
			}

			txs, err := apiClient.Reports().RecentTransactions(ctx, 5)
			if err != nil {
				fmt.Printf("  Recent:        (error: %v)\n", err)
				return nil
			}
			if len(txs) > 0 {
				fmt.Println()
				t := NewTable("DATE", "TYPE", "DESCRIPTION", "AMOUNT")
				for _, tx := range txs {
					t.AddRow(formatDate(tx.Date), tx.Type, truncate(tx.Description, 40), formatMoney(tx.Amount))
				}
				t.Render()
			}
			return nil
		},
	}
}
