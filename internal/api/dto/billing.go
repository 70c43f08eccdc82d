package dto

// CheckoutRequest represents a request to open a hosted checkout
type CheckoutRequest struct {
	Plan    string `json:"plan" validate:"required,oneof=basic pro"`
	PriceID string `json:"priceId,omitempty"`
}

// PortalResponse carries the billing portal link
type PortalResponse struct {
	URL string `json:"url"`
}

// WebhookResponse acknowledges a processed webhook
type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}
