package billing

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider implements PaymentProvider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed payment provider. The client is
// constructed once and shared for the process lifetime.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (p *StripeProvider) RetrievePrice(ctx context.Context, priceID string) (*PriceInfo, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	price, err := p.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, err
	}

	info := &PriceInfo{
		ID:         price.ID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
	}
	if price.Recurring != nil {
		info.Interval = string(price.Recurring.Interval)
	}
	return info, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (*CheckoutRedirect, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(cp.Mode),
		Customer: stripe.String(cp.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(cp.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(cp.SuccessURL),
		CancelURL:         stripe.String(cp.CancelURL),
		ClientReferenceID: stripe.String(cp.ClientReferenceID),
	}
	params.Context = ctx
	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}
	if cp.IdempotencyKey != "" {
		params.SetIdempotencyKey(cp.IdempotencyKey)
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutRedirect{SessionID: session.ID, URL: session.URL}, nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	_, err := p.api.Subscriptions.Cancel(subscriptionID, params)
	return err
}
