package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Manage the subscription",
	}

	cmd.AddCommand(newBillingStatusCmd())
	cmd.AddCommand(newBillingUpgradeCmd())
	cmd.AddCommand(newBillingPortalCmd())
	cmd.AddCommand(newBillingCancelCmd())

	return cmd
}

func newBillingStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show plan and subscription state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := apiClient.Billing().Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get subscription status: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(status)
			}

			fmt.Printf("Plan:    %s\n", status.Plan)
			fmt.Printf("Status:  %s\n", formatStatus(status.SubscriptionStatus))
			if sub := status.Subscription; sub != nil {
				fmt.Printf("Renews:  %s\n", formatDate(sub.CurrentPeriodEnd))
				if sub.CancelAtPeriodEnd {
					fmt.Println("Cancels at the end of the current period")
				}
			}
			return nil
		},
	}
}

func newBillingUpgradeCmd() *cobra.Command {
	var plan, priceID string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Open a checkout session for a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.Billing().CreateCheckout(context.Background(), plan, priceID)
			if err != nil {
				return fmt.Errorf("failed to create checkout session: %w", err)
			}
			fmt.Printf("Complete checkout at:\n%s\n", session.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "pro", "plan (basic, pro)")
	cmd.Flags().StringVar(&priceID, "price", "", "explicit price ID")

	return cmd
}

func newBillingPortalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Open the billing portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := apiClient.Billing().CreatePortal(context.Background())
			if err != nil {
				return fmt.Errorf("failed to create portal session: %w", err)
			}
			fmt.Println(url)
			return nil
		},
	}
}

func newBillingCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription at the end of the period",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := apiClient.Billing().Cancel(context.Background())
			if err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}
			fmt.Printf("Subscription %s will end on %s\n", sub.ID, formatDate(sub.CurrentPeriodEnd))
			return nil
		},
	}
}
