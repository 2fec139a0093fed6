package stripewebhooks

import (
	"time"

	stripeinfra "coachplan-app/internal/infra/stripe"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// HandleSubscriptionUpdated passes the provider's status through to the
// user record. Tier is untouched here; price changes land via
// invoice.paid once the new amount is actually collected.
func (r *Reducer) HandleSubscriptionUpdated(eventTime time.Time, sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		log.Warn().Str("subscription_id", sub.ID).Msg("subscription event without customer, skipping")
		return nil
	}

	user, err := r.userByCustomer(sub.Customer.ID)
	if err != nil || user == nil {
		return err
	}

	patch := map[string]interface{}{
		"subscription_status": stripeinfra.NormalizeStatus(string(sub.Status)),
	}
	if sub.ID != "" {
		patch["stripe_subscription_id"] = sub.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		patch["current_period_end"] = time.Unix(sub.CurrentPeriodEnd, 0)
	}

	return r.applyPatch(user, eventTime, patch)
}
