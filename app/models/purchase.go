package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase statuses. PENDING is the only non-terminal state; once a row has
// left PENDING it never returns.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusCompleted = "COMPLETED"
	PurchaseStatusCancelled = "CANCELLED"
	PurchaseStatusFailed    = "FAILED"
	PurchaseStatusRefunded  = "REFUNDED"
)

// Purchase is one ledger row per checkout attempt, plus append-only audit
// rows (e.g. cancellations). Amount is in minor currency units.
type Purchase struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UUID                  string    `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID                uint      `gorm:"not null;index:idx_purchases_user_status,priority:1" json:"user_id"`
	StripeSessionID       *string   `gorm:"type:varchar(191);uniqueIndex:ux_purchases_session;default:null" json:"stripe_session_id,omitempty"`
	Tier                  string    `gorm:"type:varchar(20);not null;default:'FREE'" json:"tier"`
	BillingMode           *string   `gorm:"type:varchar(16);default:null" json:"billing_mode"`
	Amount                int64     `gorm:"not null;default:0" json:"amount"`
	Currency              string    `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	Status                string    `gorm:"type:varchar(16);not null;default:'PENDING';index:idx_purchases_user_status,priority:2" json:"status"`
	StripePaymentIntentID *string   `gorm:"type:varchar(191);default:null" json:"stripe_payment_intent_id,omitempty"`
	StripeSubscriptionID  *string   `gorm:"type:varchar(191);default:null" json:"stripe_subscription_id,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a public reference before the row is inserted.
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether the purchase has reached a final status.
func (p *Purchase) IsTerminal() bool {
	return p.Status != PurchaseStatusPending
}
