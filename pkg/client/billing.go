package client

import "context"

// BillingService handles subscription calls
type BillingService struct {
	client *Client
}

// CreateCheckout opens a hosted checkout for plan ("basic" or "pro")
func (s *BillingService) CreateCheckout(ctx context.Context, plan, priceID string) (*CheckoutSession, error) {
	req := map[string]string{"plan": plan}
	if priceID != "" {
		req["priceId"] = priceID
	}

	var session CheckoutSession
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/payments/create-checkout-session", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreatePortal returns a customer portal URL
func (s *BillingService) CreatePortal(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/payments/create-portal-session", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Status returns the caller's plan and subscription state
func (s *BillingService) Status(ctx context.Context) (*SubscriptionStatus, error) {
	var status SubscriptionStatus
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/payments/subscription-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Cancel schedules the subscription to end with the current period
func (s *BillingService) Cancel(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/payments/cancel-subscription", nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
