package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TimKoenig/FolioDesk/internal/pkg/billing"
	"github.com/TimKoenig/FolioDesk/internal/pkg/config"
	"github.com/TimKoenig/FolioDesk/internal/pkg/metrics/counter"
	"github.com/TimKoenig/FolioDesk/internal/pkg/usercontext"
)

var (
	billingService  *billing.Service
	billingVerifier billing.EventVerifier
	billingConfig   *config.Config
)

// InitializeBillingController wires the billing handlers with their
// collaborators.
func InitializeBillingController(svc *billing.Service, verifier billing.EventVerifier, cfg *config.Config) {
	billingService = svc
	billingVerifier = verifier
	billingConfig = cfg
}

type checkoutRequest struct {
	Tier    string `json:"tier"`
	PriceID string `json:"priceId"`
}

// stripeCheckoutSession carries the few fields reconciliation needs from the
// event's embedded checkout session object.
type stripeCheckoutSession struct {
	ID            string            `json:"id"`
	Customer      string            `json:"customer"`
	Subscription  string            `json:"subscription"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// HandleBillingCheckout creates a provider checkout session for the logged-in
// user and returns the redirect URL.
func HandleBillingCheckout(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request_body"})
	}
	if req.Tier == "" {
		req.Tier = "starter"
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	url, err := billingService.StartCheckout(ctx, user, req.Tier, req.PriceID)
	if err != nil {
		var conflict *billing.TierConflictError
		switch {
		case errors.Is(err, billing.ErrBillingDisabled):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Billing is not enabled"})
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":       "You already have an active subscription for this plan",
				"currentTier": conflict.Tier,
				"isActive":    conflict.IsActive,
			})
		case errors.Is(err, billing.ErrNoPrice):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid price configuration"})
		default:
			log.Printf("billing: checkout failed for user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
		}
	}

	if err := counter.AddCheckoutStart(req.Tier); err != nil {
		log.Printf("billing: checkout counter increment failed: %v", err)
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleStripeWebhook verifies an inbound notification and hands it to the
// reconciliation service. The endpoint always acknowledges verified events,
// even ones it ignores, so the provider stops redelivering them.
func HandleStripeWebhook(c *fiber.Ctx) error {
	if !billingConfig.EnableBilling {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Billing is not enabled"})
	}

	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_signature"})
	}

	// Fiber reuses its buffers after the handler returns; the payload is
	// copied before any further work.
	raw := append([]byte(nil), c.BodyRaw()...)

	event, err := billingVerifier.Verify(raw, signature)
	if err != nil {
		log.Printf("billing: webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	eventType := string(event.Type)
	var session *billing.CompletedSession
	if eventType == billing.CheckoutCompletedEvent {
		var cs stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			// Authenticated but malformed; acknowledge so the provider stops
			// redelivering. The nil session makes the reconciler record the
			// event id and stop.
			log.Printf("billing: webhook payload decode failed for event %s: %v", event.ID, err)
		} else {
			session = &billing.CompletedSession{
				SessionID:     cs.ID,
				Customer:      cs.Customer,
				Subscription:  cs.Subscription,
				PaymentIntent: cs.PaymentIntent,
				Metadata:      cs.Metadata,
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome, err := billingService.ApplyEvent(ctx, event.ID, eventType, session)
	if err != nil {
		log.Printf("billing: webhook processing failed for event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	}

	if err := counter.AddWebhookOutcome(string(outcome)); err != nil {
		log.Printf("billing: webhook counter increment failed: %v", err)
	}

	response := fiber.Map{"received": true}
	if reason, skipped := outcome.SkipReason(); skipped {
		response["skipped"] = reason
	}
	return c.JSON(response)
}

// HandleDevCompleteCheckout simulates a completed checkout without a real
// provider round trip. Only reachable in the dev environment.
func HandleDevCompleteCheckout(c *fiber.Ctx) error {
	if !billingConfig.IsDev() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sessionId is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	purchaseID, err := billingService.SimulateCompletion(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, billing.ErrNoPendingPurchase) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No pending purchase found"})
		}
		log.Printf("billing: dev completion failed for session %s: %v", req.SessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete checkout"})
	}

	return c.JSON(fiber.Map{"success": true, "purchaseId": purchaseID})
}

// HandleUserSubscription returns the user's entitlement and recent settled
// purchases.
func HandleUserSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ent, purchases, err := billingService.Subscription(ctx, userID)
	if err != nil {
		log.Printf("billing: subscription lookup failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load subscription"})
	}

	return c.JSON(fiber.Map{"entitlement": ent, "purchases": purchases})
}

// HandleCancelSubscription revokes the user's paid entitlement and resets
// them to the free tier.
func HandleCancelSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	message, err := billingService.CancelEntitlement(ctx, userID)
	if err != nil {
		if errors.Is(err, billing.ErrNoEntitlement) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No subscription found"})
		}
		log.Printf("billing: cancellation failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel subscription", "success": false})
	}

	return c.JSON(fiber.Map{"success": true, "message": message})
}

// HandleCleanupPurchases cancels the user's stale pending purchases.
func HandleCleanupPurchases(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	updated, err := billingService.SweepStalePurchases(ctx, userID)
	if err != nil {
		log.Printf("billing: purchase cleanup failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clean up purchases"})
	}

	return c.JSON(fiber.Map{"message": "Pending purchases cleaned up", "updated": updated})
}
