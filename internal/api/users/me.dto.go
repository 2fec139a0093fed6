package users

import (
	"time"

	"coachplan-app/internal/domain/entitlement"
)

type MeResponse struct {
	User         UserDTO                  `json:"user"`
	Billing      BillingDTO               `json:"billing"`
	Entitlements entitlement.Entitlements `json:"entitlements"`
	Capabilities []string                 `json:"capabilities"`
	ClientLimit  int                      `json:"client_limit"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Lastname   string  `json:"lastname"`
	Tel        *string `json:"tel"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Tier         string           `json:"tier"`
	Status       string           `json:"status"`
	Trial        *TrialDTO        `json:"trial"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type TrialDTO struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	DaysLeft *int       `json:"days_left"`
}

type SubscriptionDTO struct {
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	StripeCustomerID     *string    `json:"stripe_customer_id"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
}
