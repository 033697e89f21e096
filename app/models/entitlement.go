package models

import "time"

// Plan tiers stored on entitlements and purchases.
const (
	TierFree       = "FREE"
	TierStarter    = "STARTER"
	TierPro        = "PRO"
	TierEnterprise = "ENTERPRISE"
)

// Billing modes: one-time payment or recurring subscription.
const (
	BillingModePayment      = "payment"
	BillingModeSubscription = "subscription"
)

// Entitlement is the durable record of what a user is currently allowed to
// access. At most one row per user; a missing row means free tier, active.
type Entitlement struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"not null;uniqueIndex:ux_entitlements_user" json:"user_id"`
	Tier                 string    `gorm:"type:varchar(20);not null;default:'FREE'" json:"tier"`
	BillingMode          *string   `gorm:"type:varchar(16);default:null" json:"billing_mode"`
	IsActive             bool      `gorm:"default:true" json:"is_active"`
	StripeCustomerID     *string   `gorm:"type:varchar(191);default:null" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `gorm:"type:varchar(191);default:null" json:"stripe_subscription_id"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultEntitlement is what a user without an entitlement row is treated as.
func DefaultEntitlement(userID uint) *Entitlement {
	return &Entitlement{
		UserID:   userID,
		Tier:     TierFree,
		IsActive: true,
	}
}
