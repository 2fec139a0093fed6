package stripewebhooks

import (
	"errors"
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/rs/zerolog/log"
)

// Reducer maps verified billing events onto partial updates of the
// matching user record: one merge-write per processed event, nothing
// else. Events that cannot be resolved are logged and dropped so the
// provider does not redeliver them forever; only storage failures
// surface as errors (and turn into a retryable non-2xx response).
type Reducer struct {
	store   users.Store
	catalog plans.TierCatalog
}

func NewReducer(store users.Store, catalog plans.TierCatalog) *Reducer {
	return &Reducer{store: store, catalog: catalog}
}

// applyPatch performs the single merge-write for an event. Deliveries
// older than the last applied billing event are skipped, so a delayed
// invoice cannot roll back a newer subscription state. Every applied
// patch stamps the new event time.
func (r *Reducer) applyPatch(u *users.User, eventTime time.Time, patch map[string]interface{}) error {
	if u.LastBillingEventAt != nil && eventTime.Before(*u.LastBillingEventAt) {
		log.Warn().
			Uint("user_id", u.ID).
			Time("event_time", eventTime).
			Time("last_event_time", *u.LastBillingEventAt).
			Msg("stale billing event ignored")
		return nil
	}
	patch["last_billing_event_at"] = eventTime
	return r.store.ApplyPatch(u.ID, patch)
}

// userByCustomer resolves the provider customer id. A missing id or an
// unknown customer returns (nil, nil): the event is dropped, not
// retried. Storage errors propagate.
func (r *Reducer) userByCustomer(customerID string) (*users.User, error) {
	if customerID == "" {
		log.Warn().Msg("billing event without customer id, skipping")
		return nil, nil
	}
	u, err := r.store.FindByStripeCustomerID(customerID)
	if errors.Is(err, users.ErrNotFound) {
		log.Error().
			Str("stripe_customer_id", customerID).
			Msg("no user for stripe customer, event dropped")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
