package models

import "time"

// ProcessedEvent is the dedup ledger for inbound Stripe notifications.
// One row per event id, inserted before any side effects and never updated,
// so at-least-once delivery collapses to at-most-once processing.
type ProcessedEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StripeEventID string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_processed_events_event" json:"stripe_event_id"`
	EventType     string    `gorm:"type:varchar(100);not null;default:''" json:"event_type"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
