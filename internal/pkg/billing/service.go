package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/TimKoenig/FolioDesk/app/models"
	"github.com/TimKoenig/FolioDesk/internal/pkg/config"
	"github.com/TimKoenig/FolioDesk/internal/pkg/entitlements"
)

// CheckoutCompletedEvent is the only event kind that mutates state.
const CheckoutCompletedEvent = "checkout.session.completed"

// StalePurchaseAge is how old a PENDING purchase must be before the sweeper
// cancels it.
const StalePurchaseAge = time.Hour

// Service orchestrates checkout initiation, webhook reconciliation,
// cancellation and the stale-purchase sweep.
type Service struct {
	repo   Repository
	pay    PaymentProvider
	cfg    *config.Config
	notify Notifier
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, pay PaymentProvider, cfg *config.Config) *Service {
	return &Service{repo: repo, pay: pay, cfg: cfg}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, pay PaymentProvider, cfg *config.Config) *Service {
	return NewService(NewRepository(db), pay, cfg)
}

// SetNotifier attaches an optional receipt notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

// StartCheckout creates a provider checkout session for the requested tier
// and persists a PENDING purchase row. It returns the redirect URL.
func (s *Service) StartCheckout(ctx context.Context, user *models.User, tier, priceID string) (string, error) {
	if !s.cfg.EnableBilling {
		return "", ErrBillingDisabled
	}

	requestedTier := entitlements.Normalize(tier)
	if !entitlements.IsPaid(requestedTier) {
		// Unknown tiers normalize to FREE; there is nothing to buy.
		return "", ErrNoPrice
	}
	mode := entitlements.NormalizeBillingMode(s.cfg.BillingMode)

	ent, err := s.repo.GetEntitlement(user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if ent != nil && ent.IsActive && ent.Tier == requestedTier {
		return "", &TierConflictError{Tier: ent.Tier, IsActive: ent.IsActive}
	}

	customerID, err := s.resolveCustomer(ctx, user)
	if err != nil {
		return "", err
	}

	price := s.resolvePrice(requestedTier, priceID, mode)
	if price == "" {
		return "", ErrNoPrice
	}

	priceInfo, err := s.pay.RetrievePrice(ctx, price)
	if err != nil {
		return "", err
	}
	currency := priceInfo.Currency
	if currency == "" {
		currency = "usd"
	}

	userRef := strconv.FormatUint(uint64(user.ID), 10)
	redirect, err := s.pay.CreateCheckoutSession(ctx, CheckoutParams{
		Mode:              mode,
		CustomerID:        customerID,
		PriceID:           price,
		SuccessURL:        s.cfg.PublicBaseURL + "/dashboard/billing?success=1&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         s.cfg.PublicBaseURL + "/dashboard/billing?canceled=1&session_id={CHECKOUT_SESSION_ID}",
		ClientReferenceID: userRef,
		Metadata: map[string]string{
			"userId":      userRef,
			"tier":        strings.ToLower(requestedTier),
			"billingMode": mode,
		},
		IdempotencyKey: fmt.Sprintf("checkout_%s_%s_%s_%s_%d", userRef, mode, strings.ToLower(requestedTier), price, time.Now().UnixMilli()),
	})
	if err != nil {
		return "", err
	}

	purchase := &models.Purchase{
		UserID:          user.ID,
		StripeSessionID: &redirect.SessionID,
		Tier:            requestedTier,
		BillingMode:     &mode,
		Amount:          priceInfo.UnitAmount,
		Currency:        currency,
		Status:          models.PurchaseStatusPending,
	}
	if err := s.repo.CreatePurchase(purchase); err != nil {
		return "", err
	}

	return redirect.URL, nil
}

// resolveCustomer returns the user's Stripe customer id, creating the
// customer and the local mapping on first checkout. The unique index on
// user_id plus look-before-create keeps the mapping single.
func (s *Service) resolveCustomer(ctx context.Context, user *models.User) (string, error) {
	mapping, err := s.repo.GetBillingCustomer(user.ID)
	if err == nil {
		return mapping.StripeCustomerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	customerID, err := s.pay.CreateCustomer(ctx, user.Email, user.Name, map[string]string{
		"userId": strconv.FormatUint(uint64(user.ID), 10),
	})
	if err != nil {
		return "", err
	}

	if err := s.repo.CreateBillingCustomer(&models.BillingCustomer{
		UserID:           user.ID,
		StripeCustomerID: customerID,
	}); err != nil {
		return "", err
	}
	return customerID, nil
}

// resolvePrice applies the resolution order: explicit price argument, then
// the mode-specific configured price for the tier, then the starter default.
func (s *Service) resolvePrice(tier, priceID, mode string) string {
	if p := strings.TrimSpace(priceID); p != "" {
		return p
	}
	if mode == models.BillingModeSubscription {
		return s.cfg.PriceIDSubscription
	}
	switch tier {
	case models.TierPro:
		return s.cfg.PriceIDPro
	case models.TierEnterprise:
		return s.cfg.PriceIDEnterprise
	default:
		return s.cfg.PriceIDStarter
	}
}

// ApplyEvent reconciles one inbound notification. The event id is recorded
// before any side effect so redelivered events collapse to an acknowledged
// no-op; the conditional purchase update covers the residual race between
// recording and acting.
func (s *Service) ApplyEvent(ctx context.Context, eventID, eventType string, session *CompletedSession) (Outcome, error) {
	_ = ctx
	id := strings.TrimSpace(eventID)
	if id == "" {
		// Defensive fallback; Stripe always sets an event id.
		sum := sha256.Sum256([]byte(eventType))
		id = "hash:" + hex.EncodeToString(sum[:])
	}

	created, err := s.repo.RecordProcessedEvent(id, eventType)
	if err != nil {
		return "", err
	}
	if !created {
		return OutcomeDuplicateEvent, nil
	}

	if eventType != CheckoutCompletedEvent || session == nil {
		return OutcomeIgnored, nil
	}

	userID, ok := parseUserID(session.Metadata["userId"])
	if !ok {
		// Malformed or irrelevant event; acknowledged without effects.
		return OutcomeIgnored, nil
	}
	tier := entitlements.Normalize(session.Metadata["tier"])
	mode := entitlements.NormalizeBillingMode(session.Metadata["billingMode"])

	completed, err := s.repo.HasCompletedPurchaseForSession(session.SessionID)
	if err != nil {
		return "", err
	}
	if completed {
		return OutcomeAlreadyProcessed, nil
	}

	ent := &models.Entitlement{
		UserID:               userID,
		Tier:                 tier,
		BillingMode:          &mode,
		IsActive:             true,
		StripeCustomerID:     optional(session.Customer),
		StripeSubscriptionID: optional(session.Subscription),
	}
	if err := s.repo.UpsertEntitlement(ent); err != nil {
		return "", err
	}

	rows, err := s.repo.CompletePendingPurchase(userID, session.SessionID, optional(session.PaymentIntent), optional(session.Subscription))
	if err != nil {
		return "", err
	}
	if rows == 0 {
		return OutcomeNoPendingPurchase, nil
	}

	if s.notify != nil {
		s.notify.PurchaseCompleted(userID, tier)
	}
	return OutcomeApplied, nil
}

// CancelEntitlement revokes paid status and returns the user to the free
// tier. A provider-side cancellation failure is logged and does not block the
// local cleanup; the local record is authoritative.
func (s *Service) CancelEntitlement(ctx context.Context, userID uint) (string, error) {
	ent, err := s.repo.GetEntitlement(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoEntitlement
		}
		return "", err
	}

	subscription := ent.BillingMode != nil && *ent.BillingMode == models.BillingModeSubscription
	if s.cfg.EnableBilling && subscription && ent.StripeSubscriptionID != nil {
		if err := s.pay.CancelSubscription(ctx, *ent.StripeSubscriptionID); err != nil {
			log.Printf("billing: provider cancellation failed for subscription %s: %v", *ent.StripeSubscriptionID, err)
		}
	}

	if err := s.repo.ResetEntitlementToFree(userID); err != nil {
		return "", err
	}

	// Append-only audit row recording what was cancelled.
	audit := &models.Purchase{
		UserID:               userID,
		Tier:                 ent.Tier,
		BillingMode:          ent.BillingMode,
		Amount:               0,
		Currency:             "eur",
		Status:               models.PurchaseStatusCancelled,
		StripeSubscriptionID: ent.StripeSubscriptionID,
	}
	if err := s.repo.CreatePurchase(audit); err != nil {
		return "", err
	}

	if subscription {
		return "Subscription cancelled successfully", nil
	}
	return "Reset to Free plan successfully", nil
}

// SweepStalePurchases cancels the user's PENDING purchases older than
// StalePurchaseAge. Re-running finds nothing left to change.
func (s *Service) SweepStalePurchases(ctx context.Context, userID uint) (int64, error) {
	_ = ctx
	cutoff := time.Now().Add(-StalePurchaseAge)
	return s.repo.CancelStalePurchases(userID, cutoff)
}

// SimulateCompletion applies the same effects as a completed-checkout
// notification using fabricated provider references. Development use only;
// the HTTP layer gates it on the runtime environment.
func (s *Service) SimulateCompletion(ctx context.Context, sessionID string) (uint, error) {
	_ = ctx
	purchase, err := s.repo.FindPendingPurchaseBySession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoPendingPurchase
		}
		return 0, err
	}

	customer := fmt.Sprintf("fake_customer_%d", purchase.UserID)
	var subscription *string
	if purchase.BillingMode != nil && *purchase.BillingMode == models.BillingModeSubscription {
		sub := fmt.Sprintf("fake_sub_%d", purchase.UserID)
		subscription = &sub
	}

	if err := s.repo.UpsertEntitlement(&models.Entitlement{
		UserID:               purchase.UserID,
		Tier:                 purchase.Tier,
		BillingMode:          purchase.BillingMode,
		IsActive:             true,
		StripeCustomerID:     &customer,
		StripeSubscriptionID: subscription,
	}); err != nil {
		return 0, err
	}

	paymentIntent := fmt.Sprintf("fake_pi_%d", purchase.ID)
	if _, err := s.repo.CompletePendingPurchase(purchase.UserID, sessionID, &paymentIntent, subscription); err != nil {
		return 0, err
	}
	return purchase.ID, nil
}

// Subscription returns the user's entitlement (the FREE default when no row
// exists) and their settled purchase history, newest first.
func (s *Service) Subscription(ctx context.Context, userID uint) (*models.Entitlement, []models.Purchase, error) {
	_ = ctx
	ent, err := s.repo.GetEntitlement(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		ent = models.DefaultEntitlement(userID)
	}

	purchases, err := s.repo.ListSettledPurchases(userID, 10)
	if err != nil {
		return nil, nil, err
	}
	return ent, purchases, nil
}

// Pricing retrieves live amounts for the configured prices. Individual lookup
// failures are logged and skipped so one bad price does not hide the rest.
func (s *Service) Pricing(ctx context.Context) ([]PricingItem, error) {
	items := []PricingItem{}
	if !s.cfg.EnableBilling {
		return items, nil
	}

	if s.cfg.BillingMode == models.BillingModeSubscription {
		if s.cfg.PriceIDSubscription == "" {
			return items, nil
		}
		info, err := s.pay.RetrievePrice(ctx, s.cfg.PriceIDSubscription)
		if err != nil {
			log.Printf("billing: price lookup failed for %s: %v", s.cfg.PriceIDSubscription, err)
			return items, nil
		}
		items = append(items, PricingItem{
			Tier:     models.TierPro,
			PriceID:  s.cfg.PriceIDSubscription,
			Amount:   info.UnitAmount,
			Currency: info.Currency,
			Interval: info.Interval,
		})
		return items, nil
	}

	configured := []struct {
		tier    string
		priceID string
	}{
		{tier: models.TierStarter, priceID: s.cfg.PriceIDStarter},
		{tier: models.TierPro, priceID: s.cfg.PriceIDPro},
		{tier: models.TierEnterprise, priceID: s.cfg.PriceIDEnterprise},
	}
	for _, c := range configured {
		if c.priceID == "" {
			continue
		}
		info, err := s.pay.RetrievePrice(ctx, c.priceID)
		if err != nil {
			log.Printf("billing: price lookup failed for %s: %v", c.priceID, err)
			continue
		}
		items = append(items, PricingItem{
			Tier:     c.tier,
			PriceID:  c.priceID,
			Amount:   info.UnitAmount,
			Currency: info.Currency,
		})
	}
	return items, nil
}

func parseUserID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func optional(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}
