package entitlement

import (
	"math"
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"
)

// Entitlements is the derived access view over a user's stored
// subscription fields. It is recomputed on every call and never
// persisted, so a trial expiring takes effect without any mutation of
// the record.
type Entitlements struct {
	IsPro                  bool `json:"is_pro"`
	IsTrialing             bool `json:"is_trialing"`
	DaysLeftInTrial        *int `json:"days_left_in_trial"`
	CanAccessGatedFeatures bool `json:"can_access_gated_features"`
}

// Derive computes the entitlements for a user at the given instant.
// IsPro requires status to be exactly "active": past_due keeps the tier
// on the record but drops gated access until the provider reports the
// subscription healthy again.
func Derive(now time.Time, u users.User) Entitlements {
	var ent Entitlements

	ent.IsPro = u.SubscriptionStatus == users.StatusActive && plans.IsPaidTier(u.SubscriptionTier)

	if u.SubscriptionStatus == users.StatusTrialing && u.TrialEndsAt != nil && u.TrialEndsAt.After(now) {
		ent.IsTrialing = true
		days := int(math.Ceil(u.TrialEndsAt.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}
		ent.DaysLeftInTrial = &days
	}

	ent.CanAccessGatedFeatures = ent.IsPro || ent.IsTrialing
	return ent
}
