package billing

import (
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// EventVerifier authenticates a raw webhook payload against its signature
// header and returns the parsed event. Kept as an interface so the webhook
// handler can be tested against fixed fixtures.
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (stripe.Event, error)
}

// StripeVerifier verifies Stripe webhook signatures with a shared secret.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
