package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/bizlytic/pkg/client"
)

func newSaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and browse sales",
	}

	cmd.AddCommand(newSaleListCmd())
	cmd.AddCommand(newSaleGetCmd())
	cmd.AddCommand(newSaleAddCmd())
	cmd.AddCommand(newSaleDeleteCmd())
	cmd.AddCommand(newSaleSummaryCmd())

	return cmd
}

func newSaleListCmd() *cobra.Command {
	var opts client.SaleListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.Sales().List(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list sales: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(list)
			}

			t := NewTable("ID", "DATE", "CUSTOMER", "PRODUCT", "QTY", "TOTAL", "CATEGORY")
			for _, s := range list.Items {
				t.AddRow(
					s.ID,
					formatDate(s.SaleDate),
					truncate(s.CustomerName, 24),
					truncate(s.ProductName, 24),
					fmt.Sprintf("%d", s.Quantity),
					formatMoney(s.TotalAmount),
					s.Category,
				)
			}
			t.Render()
			fmt.Printf("\nPage %d of %d (%d sales)\n", list.Pagination.Page, list.Pagination.Pages, list.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "page size")
	cmd.Flags().StringVar(&opts.StartDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&opts.CustomerName, "customer", "", "filter by customer name")

	return cmd
}

func newSaleGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := apiClient.Sales().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get sale: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(s)
			}

			fmt.Printf("ID:       %s\n", s.ID)
			fmt.Printf("Date:     %s\n", formatDate(s.SaleDate))
			fmt.Printf("Customer: %s\n", s.CustomerName)
			fmt.Printf("Product:  %s x %d @ %s\n", s.ProductName, s.Quantity, formatMoney(s.UnitPrice))
			fmt.Printf("Total:    %s (%s)\n", formatMoney(s.TotalAmount), s.PaymentMethod)
			fmt.Printf("Category: %s\n", s.Category)
			if s.Notes != "" {
				fmt.Printf("Notes:    %s\n", s.Notes)
			}
			return nil
		},
	}
}

func newSaleAddCmd() *cobra.Command {
	var req client.CreateSaleRequest
	var unitPrice string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(unitPrice)
			if err != nil {
				return fmt.Errorf("invalid --price %q: %w", unitPrice, err)
			}
			req.UnitPrice = price

			s, err := apiClient.Sales().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to record sale: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(s)
			}
			fmt.Printf("Recorded sale %s: %s\n", s.ID, formatMoney(s.TotalAmount))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CustomerName, "customer", "", "customer name")
	cmd.Flags().StringVar(&req.ProductName, "product", "", "product name")
	cmd.Flags().IntVar(&req.Quantity, "qty", 1, "quantity")
	cmd.Flags().StringVar(&unitPrice, "price", "", "unit price")
	cmd.Flags().StringVar(&req.Category, "category", "", "category")
	cmd.Flags().StringVar(&req.PaymentMethod, "payment", "", "payment method (cash, card, transfer, other)")
	cmd.Flags().StringVar(&req.SaleDate, "date", "", "sale date (default now)")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "notes")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newSaleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Sales().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete sale: %w", err)
			}
			fmt.Printf("Deleted sale %s\n", args[0])
			return nil
		},
	}
}

func newSaleSummaryCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show sales totals and top categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Sales().Summary(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("failed to get sales summary: %w", err)
			}
			return printSummary("sales", summary)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date, inclusive (YYYY-MM-DD)")

	return cmd
}

func printSummary(label string, s *client.Summary) error {
	if getOutputFormat() != "table" {
		return printOutput(s)
	}

	fmt.Printf("Count:   %d %s\n", s.Count, label)
	fmt.Printf("Total:   %s\n", formatMoney(s.TotalAmount))
	fmt.Printf("Average: %s\n", formatMoney(s.Average))
	if len(s.TopCategories) > 0 {
		fmt.Println()
		t := NewTable("CATEGORY", "TOTAL", "COUNT")
		for _, c := range s.TopCategories {
			t.AddRow(c.Category, formatMoney(c.Total), fmt.Sprintf("%d", c.Count))
		}
		t.Render()
	}
	return nil
}
