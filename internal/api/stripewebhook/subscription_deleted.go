package stripewebhooks

import (
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// HandleSubscriptionDeleted downgrades immediately: free tier, canceled
// status, subscription reference cleared. No grace period.
func (r *Reducer) HandleSubscriptionDeleted(eventTime time.Time, sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		log.Warn().Str("subscription_id", sub.ID).Msg("subscription event without customer, skipping")
		return nil
	}

	user, err := r.userByCustomer(sub.Customer.ID)
	if err != nil || user == nil {
		return err
	}

	patch := map[string]interface{}{
		"subscription_tier":      plans.TierFree,
		"subscription_status":    users.StatusCanceled,
		"stripe_subscription_id": nil,
	}

	return r.applyPatch(user, eventTime, patch)
}
