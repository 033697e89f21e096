package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/TimKoenig/FolioDesk/app/models"
	"github.com/TimKoenig/FolioDesk/internal/pkg/config"
)

type fakeProvider struct {
	prices           map[string]*PriceInfo
	createdCustomers int
	createdSessions  int
	lastCheckout     CheckoutParams
	cancelled        []string
	cancelErr        error
}

func (f *fakeProvider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	f.createdCustomers++
	return fmt.Sprintf("cus_test_%d", f.createdCustomers), nil
}

func (f *fakeProvider) RetrievePrice(ctx context.Context, priceID string) (*PriceInfo, error) {
	if info, ok := f.prices[priceID]; ok {
		return info, nil
	}
	return nil, fmt.Errorf("price %s not found", priceID)
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutRedirect, error) {
	f.createdSessions++
	f.lastCheckout = params
	id := fmt.Sprintf("cs_test_%d", f.createdSessions)
	return &CheckoutRedirect{SessionID: id, URL: "https://checkout.stripe.com/pay/" + id}, nil
}

func (f *fakeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	f.cancelled = append(f.cancelled, subscriptionID)
	return f.cancelErr
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Entitlement{},
		&models.Purchase{},
		&models.ProcessedEvent{},
		&models.BillingCustomer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "dev",
		AppPort:             "4000",
		PublicBaseURL:       "http://localhost:4000",
		EnableBilling:       true,
		BillingMode:         models.BillingModePayment,
		StripeSecretKey:     "sk_test_x",
		StripeWebhookSecret: "whsec_x",
		PriceIDStarter:      "price_starter",
		PriceIDPro:          "price_pro",
		PriceIDEnterprise:   "price_enterprise",
	}
}

func newTestService(t *testing.T) (*Service, *fakeProvider, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	pay := &fakeProvider{prices: map[string]*PriceInfo{
		"price_starter":    {ID: "price_starter", UnitAmount: 900, Currency: "eur"},
		"price_pro":        {ID: "price_pro", UnitAmount: 2900, Currency: "eur"},
		"price_enterprise": {ID: "price_enterprise", UnitAmount: 9900, Currency: "eur"},
	}}
	svc := NewServiceFromDB(db, pay, testConfig())
	return svc, pay, db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Ada Tester", Email: "ada@example.com", Password: "x", Role: models.ROLE_USER, Status: models.STATUS_ACTIVE}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func pendingSessionID(t *testing.T, db *gorm.DB, userID uint) string {
	t.Helper()
	var purchase models.Purchase
	if err := db.Where("user_id = ? AND status = ?", userID, models.PurchaseStatusPending).First(&purchase).Error; err != nil {
		t.Fatalf("load pending purchase: %v", err)
	}
	if purchase.StripeSessionID == nil {
		t.Fatalf("pending purchase has no session id")
	}
	return *purchase.StripeSessionID
}

func TestSubscriptionDefaultsToFree(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	ent, purchases, err := svc.Subscription(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Subscription: %v", err)
	}
	if ent.Tier != models.TierFree || !ent.IsActive {
		t.Fatalf("expected default FREE/active entitlement, got tier=%q active=%v", ent.Tier, ent.IsActive)
	}
	if ent.BillingMode != nil {
		t.Fatalf("expected nil billing mode on default entitlement")
	}
	if len(purchases) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(purchases))
	}
}

func TestStartCheckoutCreatesPendingPurchase(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)

	url, err := svc.StartCheckout(context.Background(), user, "pro", "")
	if err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	if url == "" {
		t.Fatalf("expected redirect url")
	}
	if pay.createdCustomers != 1 {
		t.Fatalf("expected one created customer, got %d", pay.createdCustomers)
	}
	if pay.lastCheckout.PriceID != "price_pro" {
		t.Fatalf("expected pro price, got %q", pay.lastCheckout.PriceID)
	}
	if pay.lastCheckout.Metadata["tier"] != "pro" || pay.lastCheckout.Metadata["billingMode"] != models.BillingModePayment {
		t.Fatalf("unexpected checkout metadata: %v", pay.lastCheckout.Metadata)
	}
	if pay.lastCheckout.IdempotencyKey == "" {
		t.Fatalf("expected idempotency key to be set")
	}

	var purchase models.Purchase
	if err := db.Where("user_id = ?", user.ID).First(&purchase).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if purchase.Status != models.PurchaseStatusPending {
		t.Fatalf("expected PENDING purchase, got %q", purchase.Status)
	}
	if purchase.Amount != 2900 || purchase.Currency != "eur" {
		t.Fatalf("expected amount 2900 eur from price, got %d %s", purchase.Amount, purchase.Currency)
	}
	if purchase.Tier != models.TierPro {
		t.Fatalf("expected tier PRO, got %q", purchase.Tier)
	}
}

func TestStartCheckoutReusesCustomerMapping(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); err != nil {
		t.Fatalf("first StartCheckout: %v", err)
	}
	if _, err := svc.StartCheckout(context.Background(), user, "starter", ""); err != nil {
		t.Fatalf("second StartCheckout: %v", err)
	}
	if pay.createdCustomers != 1 {
		t.Fatalf("expected customer to be created once, got %d", pay.createdCustomers)
	}

	var count int64
	db.Model(&models.BillingCustomer{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one customer mapping, got %d", count)
	}
}

func TestStartCheckoutExplicitPriceWins(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)
	pay.prices["price_custom"] = &PriceInfo{ID: "price_custom", UnitAmount: 1500, Currency: "usd"}

	if _, err := svc.StartCheckout(context.Background(), user, "pro", "price_custom"); err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	if pay.lastCheckout.PriceID != "price_custom" {
		t.Fatalf("expected explicit price to win, got %q", pay.lastCheckout.PriceID)
	}
}

func TestStartCheckoutBillingDisabled(t *testing.T) {
	svc, _, db := newTestService(t)
	svc.cfg.EnableBilling = false
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); !errors.Is(err, ErrBillingDisabled) {
		t.Fatalf("expected ErrBillingDisabled, got %v", err)
	}
}

func TestStartCheckoutNoPriceConfigured(t *testing.T) {
	svc, _, db := newTestService(t)
	svc.cfg.PriceIDStarter = ""
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "starter", ""); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("expected ErrNoPrice, got %v", err)
	}
}

func TestStartCheckoutRejectsUnpurchasableTier(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)

	for _, tier := range []string{"free", "FREE", "bogus", "  "} {
		if _, err := svc.StartCheckout(context.Background(), user, tier, ""); !errors.Is(err, ErrNoPrice) {
			t.Fatalf("tier %q: expected ErrNoPrice, got %v", tier, err)
		}
	}
	if pay.createdCustomers != 0 || pay.createdSessions != 0 {
		t.Fatalf("rejected tier must not touch the provider: customers=%d sessions=%d", pay.createdCustomers, pay.createdSessions)
	}

	var count int64
	db.Model(&models.Purchase{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected tier must not create a purchase row, found %d", count)
	}
}

func TestStartCheckoutDuplicateActiveTierConflict(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	mode := models.BillingModePayment
	if err := db.Create(&models.Entitlement{UserID: user.ID, Tier: models.TierPro, BillingMode: &mode, IsActive: true}).Error; err != nil {
		t.Fatalf("seed entitlement: %v", err)
	}

	_, err := svc.StartCheckout(context.Background(), user, "pro", "")
	var conflict *TierConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected TierConflictError, got %v", err)
	}
	if conflict.Tier != models.TierPro || !conflict.IsActive {
		t.Fatalf("unexpected conflict payload: %+v", conflict)
	}

	var count int64
	db.Model(&models.Purchase{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("conflict must not create a purchase row, found %d", count)
	}

	// A different tier is allowed.
	if _, err := svc.StartCheckout(context.Background(), user, "enterprise", ""); err != nil {
		t.Fatalf("checkout for other tier: %v", err)
	}
}

func TestApplyEventCompletesCheckout(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	sessionID := pendingSessionID(t, db, user.ID)

	outcome, err := svc.ApplyEvent(context.Background(), "evt_1", CheckoutCompletedEvent, &CompletedSession{
		SessionID:     sessionID,
		Customer:      "cus_test_1",
		PaymentIntent: "pi_test_1",
		Metadata: map[string]string{
			"userId":      fmt.Sprintf("%d", user.ID),
			"tier":        "pro",
			"billingMode": "payment",
		},
	})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("expected applied, got %q", outcome)
	}

	ent, purchases, err := svc.Subscription(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Subscription: %v", err)
	}
	if ent.Tier != models.TierPro || !ent.IsActive {
		t.Fatalf("expected PRO/active entitlement, got tier=%q active=%v", ent.Tier, ent.IsActive)
	}
	if ent.StripeCustomerID == nil || *ent.StripeCustomerID != "cus_test_1" {
		t.Fatalf("expected customer ref on entitlement")
	}
	if len(purchases) != 1 {
		t.Fatalf("expected one settled purchase, got %d", len(purchases))
	}
	if purchases[0].Status != models.PurchaseStatusCompleted || purchases[0].Amount != 2900 || purchases[0].Currency != "eur" {
		t.Fatalf("unexpected purchase: %+v", purchases[0])
	}
	if purchases[0].StripePaymentIntentID == nil || *purchases[0].StripePaymentIntentID != "pi_test_1" {
		t.Fatalf("expected payment intent ref on purchase")
	}
}

func TestApplyEventDuplicateEventID(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	sessionID := pendingSessionID(t, db, user.ID)
	session := &CompletedSession{
		SessionID: sessionID,
		Metadata: map[string]string{
			"userId":      fmt.Sprintf("%d", user.ID),
			"tier":        "pro",
			"billingMode": "payment",
		},
	}

	first, err := svc.ApplyEvent(context.Background(), "evt_dup", CheckoutCompletedEvent, session)
	if err != nil || first != OutcomeApplied {
		t.Fatalf("first delivery: outcome=%q err=%v", first, err)
	}

	second, err := svc.ApplyEvent(context.Background(), "evt_dup", CheckoutCompletedEvent, session)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if second != OutcomeDuplicateEvent {
		t.Fatalf("expected duplicate_event, got %q", second)
	}

	var completed int64
	db.Model(&models.Purchase{}).Where("user_id = ? AND status = ?", user.ID, models.PurchaseStatusCompleted).Count(&completed)
	if completed != 1 {
		t.Fatalf("expected exactly one completed purchase, got %d", completed)
	}
}

func TestApplyEventRedeliveryWithNewEventID(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	sessionID := pendingSessionID(t, db, user.ID)
	session := &CompletedSession{
		SessionID: sessionID,
		Metadata: map[string]string{
			"userId":      fmt.Sprintf("%d", user.ID),
			"tier":        "pro",
			"billingMode": "payment",
		},
	}

	if outcome, err := svc.ApplyEvent(context.Background(), "evt_a", CheckoutCompletedEvent, session); err != nil || outcome != OutcomeApplied {
		t.Fatalf("first delivery: outcome=%q err=%v", outcome, err)
	}

	// Same session under a fresh event id: the completed-purchase guard fires.
	outcome, err := svc.ApplyEvent(context.Background(), "evt_b", CheckoutCompletedEvent, session)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if outcome != OutcomeAlreadyProcessed {
		t.Fatalf("expected already_processed, got %q", outcome)
	}
}

func TestApplyEventIgnoresOtherEventKinds(t *testing.T) {
	svc, _, _ := newTestService(t)

	outcome, err := svc.ApplyEvent(context.Background(), "evt_other", "invoice.paid", nil)
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("expected ignored, got %q", outcome)
	}

	// The event id is still recorded for dedup.
	outcome, err = svc.ApplyEvent(context.Background(), "evt_other", "invoice.paid", nil)
	if err != nil || outcome != OutcomeDuplicateEvent {
		t.Fatalf("expected duplicate_event on redelivery, got %q err=%v", outcome, err)
	}
}

func TestApplyEventMissingUserIsNoop(t *testing.T) {
	svc, _, db := newTestService(t)

	outcome, err := svc.ApplyEvent(context.Background(), "evt_nouser", CheckoutCompletedEvent, &CompletedSession{
		SessionID: "cs_unknown",
		Metadata:  map[string]string{"tier": "pro"},
	})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("expected ignored, got %q", outcome)
	}

	var count int64
	db.Model(&models.Entitlement{}).Count(&count)
	if count != 0 {
		t.Fatalf("no entitlement may be created without a user id")
	}
}

func TestCancelEntitlementKeepsCustomerReference(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)

	mode := models.BillingModeSubscription
	customer := "cus_keep_me"
	sub := "sub_live_1"
	if err := db.Create(&models.Entitlement{
		UserID:               user.ID,
		Tier:                 models.TierPro,
		BillingMode:          &mode,
		IsActive:             true,
		StripeCustomerID:     &customer,
		StripeSubscriptionID: &sub,
	}).Error; err != nil {
		t.Fatalf("seed entitlement: %v", err)
	}

	msg, err := svc.CancelEntitlement(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CancelEntitlement: %v", err)
	}
	if msg != "Subscription cancelled successfully" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(pay.cancelled) != 1 || pay.cancelled[0] != "sub_live_1" {
		t.Fatalf("expected provider cancellation of sub_live_1, got %v", pay.cancelled)
	}

	var ent models.Entitlement
	if err := db.Where("user_id = ?", user.ID).First(&ent).Error; err != nil {
		t.Fatalf("load entitlement: %v", err)
	}
	if ent.Tier != models.TierFree || !ent.IsActive {
		t.Fatalf("expected FREE/active after cancel, got tier=%q active=%v", ent.Tier, ent.IsActive)
	}
	if ent.BillingMode != nil || ent.StripeSubscriptionID != nil {
		t.Fatalf("expected billing mode and subscription ref cleared")
	}
	if ent.StripeCustomerID == nil || *ent.StripeCustomerID != "cus_keep_me" {
		t.Fatalf("customer reference must survive cancellation")
	}

	var audit models.Purchase
	if err := db.Where("user_id = ? AND status = ?", user.ID, models.PurchaseStatusCancelled).First(&audit).Error; err != nil {
		t.Fatalf("load audit row: %v", err)
	}
	if audit.Amount != 0 || audit.Tier != models.TierPro {
		t.Fatalf("unexpected audit row: %+v", audit)
	}
}

func TestCancelEntitlementProviderFailureIsNonFatal(t *testing.T) {
	svc, pay, db := newTestService(t)
	user := createTestUser(t, db)
	pay.cancelErr = errors.New("stripe unreachable")

	mode := models.BillingModeSubscription
	sub := "sub_live_2"
	if err := db.Create(&models.Entitlement{
		UserID:               user.ID,
		Tier:                 models.TierStarter,
		BillingMode:          &mode,
		IsActive:             true,
		StripeSubscriptionID: &sub,
	}).Error; err != nil {
		t.Fatalf("seed entitlement: %v", err)
	}

	if _, err := svc.CancelEntitlement(context.Background(), user.ID); err != nil {
		t.Fatalf("local cleanup must proceed despite provider failure: %v", err)
	}

	var ent models.Entitlement
	db.Where("user_id = ?", user.ID).First(&ent)
	if ent.Tier != models.TierFree {
		t.Fatalf("expected FREE after cancel, got %q", ent.Tier)
	}
}

func TestCancelEntitlementNotFound(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	if _, err := svc.CancelEntitlement(context.Background(), user.ID); !errors.Is(err, ErrNoEntitlement) {
		t.Fatalf("expected ErrNoEntitlement, got %v", err)
	}
}

func TestSweepStalePurchases(t *testing.T) {
	svc, _, db := newTestService(t)
	user := createTestUser(t, db)

	oldSession := "cs_old"
	freshSession := "cs_fresh"
	stale := &models.Purchase{
		UserID:          user.ID,
		StripeSessionID: &oldSession,
		Tier:            models.TierPro,
		Status:          models.PurchaseStatusPending,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
	}
	fresh := &models.Purchase{
		UserID:          user.ID,
		StripeSessionID: &freshSession,
		Tier:            models.TierPro,
		Status:          models.PurchaseStatusPending,
		CreatedAt:       time.Now().Add(-5 * time.Minute),
	}
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("seed stale purchase: %v", err)
	}
	if err := db.Create(fresh).Error; err != nil {
		t.Fatalf("seed fresh purchase: %v", err)
	}

	updated, err := svc.SweepStalePurchases(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("SweepStalePurchases: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 swept purchase, got %d", updated)
	}

	var reloadedStale, reloadedFresh models.Purchase
	db.First(&reloadedStale, stale.ID)
	db.First(&reloadedFresh, fresh.ID)
	if reloadedStale.Status != models.PurchaseStatusCancelled {
		t.Fatalf("stale purchase should be CANCELLED, got %q", reloadedStale.Status)
	}
	if reloadedFresh.Status != models.PurchaseStatusPending {
		t.Fatalf("fresh purchase must stay PENDING, got %q", reloadedFresh.Status)
	}

	// Idempotent: a second run finds nothing.
	updated, err = svc.SweepStalePurchases(context.Background(), user.ID)
	if err != nil || updated != 0 {
		t.Fatalf("expected idempotent re-run, got updated=%d err=%v", updated, err)
	}
}

func TestSimulateCompletion(t *testing.T) {
	svc, _, db := newTestService(t)
	svc.cfg.BillingMode = models.BillingModeSubscription
	svc.cfg.PriceIDSubscription = "price_pro"
	user := createTestUser(t, db)

	if _, err := svc.StartCheckout(context.Background(), user, "pro", ""); err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	sessionID := pendingSessionID(t, db, user.ID)

	purchaseID, err := svc.SimulateCompletion(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("SimulateCompletion: %v", err)
	}

	var ent models.Entitlement
	if err := db.Where("user_id = ?", user.ID).First(&ent).Error; err != nil {
		t.Fatalf("load entitlement: %v", err)
	}
	if ent.Tier != models.TierPro || !ent.IsActive {
		t.Fatalf("expected PRO/active, got tier=%q active=%v", ent.Tier, ent.IsActive)
	}
	if ent.StripeCustomerID == nil || *ent.StripeCustomerID != fmt.Sprintf("fake_customer_%d", user.ID) {
		t.Fatalf("expected fabricated customer ref")
	}
	if ent.StripeSubscriptionID == nil || *ent.StripeSubscriptionID != fmt.Sprintf("fake_sub_%d", user.ID) {
		t.Fatalf("expected fabricated subscription ref")
	}

	var purchase models.Purchase
	db.First(&purchase, purchaseID)
	if purchase.Status != models.PurchaseStatusCompleted {
		t.Fatalf("expected COMPLETED purchase, got %q", purchase.Status)
	}
	if purchase.StripePaymentIntentID == nil || *purchase.StripePaymentIntentID != fmt.Sprintf("fake_pi_%d", purchaseID) {
		t.Fatalf("expected fabricated payment intent ref")
	}

	// Re-running finds no pending purchase.
	if _, err := svc.SimulateCompletion(context.Background(), sessionID); !errors.Is(err, ErrNoPendingPurchase) {
		t.Fatalf("expected ErrNoPendingPurchase, got %v", err)
	}
}

func TestPricingPaymentMode(t *testing.T) {
	svc, _, _ := newTestService(t)

	items, err := svc.Pricing(context.Background())
	if err != nil {
		t.Fatalf("Pricing: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(items))
	}
	if items[1].Tier != models.TierPro || items[1].Amount != 2900 {
		t.Fatalf("unexpected pro price: %+v", items[1])
	}
}

func TestPricingSkipsFailingPrice(t *testing.T) {
	svc, pay, _ := newTestService(t)
	delete(pay.prices, "price_enterprise")

	items, err := svc.Pricing(context.Background())
	if err != nil {
		t.Fatalf("Pricing: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected failing price to be skipped, got %d items", len(items))
	}
}

func TestPricingDisabled(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.cfg.EnableBilling = false

	items, err := svc.Pricing(context.Background())
	if err != nil {
		t.Fatalf("Pricing: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no prices when billing disabled, got %d", len(items))
	}
}
