package billing

import "time"

// WebhookEvent records every verified Stripe delivery. Replays of an
// already-processed event id are acknowledged without running the
// reducer again; failed attempts keep their error for inspection.
type WebhookEvent struct {
	ID              uint   `gorm:"primaryKey"`
	StripeEventID   string `gorm:"column:stripe_event_id;not null;uniqueIndex:idx_webhook_events_stripe_event_id"`
	Type            string `gorm:"index"`
	ProcessedAt     *time.Time
	ProcessingError *string
	CreatedAt       time.Time
}
