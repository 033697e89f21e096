package billing

import "context"

// PriceInfo is the resolved state of a provider-side price.
type PriceInfo struct {
	ID         string
	UnitAmount int64
	Currency   string
	Interval   string
}

// CheckoutParams describes a provider checkout session to create.
type CheckoutParams struct {
	Mode              string
	CustomerID        string
	PriceID           string
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	Metadata          map[string]string
	IdempotencyKey    string
}

// CheckoutRedirect is the created session and the URL to send the user to.
type CheckoutRedirect struct {
	SessionID string
	URL       string
}

// PaymentProvider is the capability surface the billing service needs from
// the external payment system. The production implementation talks to Stripe;
// tests substitute a fake.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error)
	RetrievePrice(ctx context.Context, priceID string) (*PriceInfo, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutRedirect, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}
