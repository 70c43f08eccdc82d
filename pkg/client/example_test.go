package client_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/pkg/client"
)

// Example demonstrates basic usage of the Bizlytic client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	loginResp, err := c.Login(ctx, "owner@example.com", "password")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Logged in as: %s\n", loginResp.User.Email)

	sales, err := c.Sales().List(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d sales\n", sales.Pagination.Total)
}

// ExampleSaleService_Create demonstrates recording a sale
func ExampleSaleService_Create() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	if _, err := c.Login(context.Background(), "owner@example.com", "password"); err != nil {
		log.Fatal(err)
	}

	sale, err := c.Sales().Create(context.Background(), client.CreateSaleRequest{
		CustomerName: "Acme Corp",
		ProductName:  "Widget",
		Quantity:     3,
		UnitPrice:    decimal.RequireFromString("19.99"),
		Category:     "hardware",
		SaleDate:     "2024-03-15",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Recorded sale %s for %s\n", sale.ID, sale.TotalAmount.StringFixed(2))
}

// ExampleReportService_ProfitLoss demonstrates a monthly profit and loss report
func ExampleReportService_ProfitLoss() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	if _, err := c.Login(context.Background(), "owner@example.com", "password"); err != nil {
		log.Fatal(err)
	}

	pl, err := c.Reports().ProfitLoss(context.Background(), "2024-03-01", "2024-03-31")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Revenue:  %s %s\n", pl.Revenue.StringFixed(2), pl.Currency)
	fmt.Printf("Expenses: %s %s\n", pl.Expenses.StringFixed(2), pl.Currency)
	fmt.Printf("Net:      %s (%s%%)\n", pl.NetProfit.StringFixed(2), pl.ProfitMargin)
}

// ExampleReportService_Export demonstrates exporting a report, which needs a Pro plan
func ExampleReportService_Export() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	if _, err := c.Login(context.Background(), "owner@example.com", "password"); err != nil {
		log.Fatal(err)
	}

	export, err := c.Reports().Export(context.Background(), "sales", "2024-01-01", "2024-12-31")
	if apiErr, ok := err.(*client.APIError); ok && apiErr.IsPlanRequired() {
		fmt.Println("Upgrade to Pro to export reports")
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	if export.URL != "" {
		fmt.Printf("Download %s before %s: %s\n", export.Filename, export.ExpiresAt, export.URL)
		return
	}
	if err := os.WriteFile(export.Filename, export.Body, 0o644); err != nil {
		log.Fatal(err)
	}
}

// ExampleAPIError demonstrates handling validation errors
func ExampleAPIError() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	_, err := c.Expenses().Create(context.Background(), client.CreateExpenseRequest{
		Description: "Rent",
		Amount:      decimal.NewFromInt(1200),
		Category:    "rent",
		IsRecurring: true,
	})
	if apiErr, ok := err.(*client.APIError); ok && apiErr.IsValidationError() {
		for _, fe := range apiErr.Details {
			fmt.Printf("%s: %s\n", fe.Field, fe.Message)
		}
	}
}
