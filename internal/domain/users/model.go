package users

import "time"

// Subscription status values stored on a user record. Incoming Stripe
// statuses are normalized into this set before being written.
const (
	StatusNone     = "none"
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Tel          string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string
	IsVerified   bool

	SubscriptionTier   string `gorm:"column:subscription_tier;not null;default:'free'"`
	SubscriptionStatus string `gorm:"column:subscription_status;not null;default:'none'"`

	// Set once at first checkout, afterwards the join key for every
	// webhook update. The provider guarantees uniqueness.
	StripeCustomerID     *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id"`

	TrialStartAt *time.Time `gorm:"column:trial_start_at"`
	TrialEndsAt  *time.Time `gorm:"column:trial_ends_at"`

	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end"`

	// Timestamp of the newest billing event applied to this record.
	// The webhook reducer refuses to apply anything older.
	LastBillingEventAt *time.Time `gorm:"column:last_billing_event_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
