package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TimKoenig/FolioDesk/app/models"
)

// Repository provides the DB operations used by the billing service. All
// cross-request coordination happens here through unique indexes and
// predicate-qualified updates, not in-process locks.
type Repository interface {
	GetEntitlement(userID uint) (*models.Entitlement, error)
	UpsertEntitlement(ent *models.Entitlement) error
	ResetEntitlementToFree(userID uint) error

	GetBillingCustomer(userID uint) (*models.BillingCustomer, error)
	CreateBillingCustomer(mapping *models.BillingCustomer) error

	CreatePurchase(purchase *models.Purchase) error
	HasCompletedPurchaseForSession(sessionID string) (bool, error)
	FindPendingPurchaseBySession(sessionID string) (*models.Purchase, error)
	CompletePendingPurchase(userID uint, sessionID string, paymentIntentID, subscriptionID *string) (int64, error)
	CancelStalePurchases(userID uint, cutoff time.Time) (int64, error)
	ListSettledPurchases(userID uint, limit int) ([]models.Purchase, error)

	RecordProcessedEvent(eventID, eventType string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetEntitlement(userID uint) (*models.Entitlement, error) {
	var ent models.Entitlement
	if err := r.db.Where("user_id = ?", userID).First(&ent).Error; err != nil {
		return nil, err
	}
	return &ent, nil
}

func (r *gormRepository) UpsertEntitlement(ent *models.Entitlement) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tier",
			"billing_mode",
			"is_active",
			"stripe_customer_id",
			"stripe_subscription_id",
			"updated_at",
		}),
	}).Create(ent).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", ent.UserID).First(ent).Error
}

func (r *gormRepository) ResetEntitlementToFree(userID uint) error {
	// Keeps stripe_customer_id so the customer can be reused on a later
	// checkout.
	return r.db.Model(&models.Entitlement{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"tier":                   models.TierFree,
			"billing_mode":           nil,
			"is_active":              true,
			"stripe_subscription_id": nil,
		}).Error
}

func (r *gormRepository) GetBillingCustomer(userID uint) (*models.BillingCustomer, error) {
	var mapping models.BillingCustomer
	if err := r.db.Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *gormRepository) CreateBillingCustomer(mapping *models.BillingCustomer) error {
	return r.db.Create(mapping).Error
}

func (r *gormRepository) CreatePurchase(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

func (r *gormRepository) HasCompletedPurchaseForSession(sessionID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, models.PurchaseStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) FindPendingPurchaseBySession(sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.
		Where("stripe_session_id = ? AND status = ?", sessionID, models.PurchaseStatusPending).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *gormRepository) CompletePendingPurchase(userID uint, sessionID string, paymentIntentID, subscriptionID *string) (int64, error) {
	// The status predicate makes concurrent deliveries race-safe: only one
	// update can move the row out of PENDING.
	tx := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND stripe_session_id = ? AND status = ?", userID, sessionID, models.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":                   models.PurchaseStatusCompleted,
			"stripe_payment_intent_id": paymentIntentID,
			"stripe_subscription_id":   subscriptionID,
		})
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) CancelStalePurchases(userID uint, cutoff time.Time) (int64, error) {
	tx := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND status = ? AND created_at < ?", userID, models.PurchaseStatusPending, cutoff).
		Update("status", models.PurchaseStatusCancelled)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) ListSettledPurchases(userID uint, limit int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.
		Where("user_id = ? AND status <> ?", userID, models.PurchaseStatusPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}

func (r *gormRepository) RecordProcessedEvent(eventID, eventType string) (bool, error) {
	event := &models.ProcessedEvent{
		StripeEventID: eventID,
		EventType:     eventType,
	}
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
