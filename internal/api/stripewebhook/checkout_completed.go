package stripewebhooks

import (
	"errors"
	"strconv"
	"time"

	"coachplan-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// HandleCheckoutCompleted records the newly minted customer and
// subscription ids on the referenced user. It never grants access:
// payment capture is asynchronous, so the tier only flips when
// invoice.paid arrives. This is the one event resolved by a direct user
// reference instead of customer-id lookup, because the customer id is
// being established here.
func (r *Reducer) HandleCheckoutCompleted(eventTime time.Time, session *stripe.CheckoutSession) error {
	userID := userIDFromSession(session)
	if userID == 0 {
		log.Warn().Str("session_id", session.ID).Msg("checkout session without user reference, skipping")
		return nil
	}

	user, err := r.store.FindByID(userID)
	if errors.Is(err, users.ErrNotFound) {
		log.Error().Uint("user_id", userID).Msg("checkout session references unknown user, event dropped")
		return nil
	}
	if err != nil {
		return err
	}

	patch := map[string]interface{}{}
	if session.Customer != nil && session.Customer.ID != "" {
		patch["stripe_customer_id"] = session.Customer.ID
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		patch["stripe_subscription_id"] = session.Subscription.ID
	}
	if len(patch) == 0 {
		log.Warn().Str("session_id", session.ID).Msg("checkout session carries no customer or subscription, skipping")
		return nil
	}

	return r.applyPatch(user, eventTime, patch)
}

// The user reference travels on the session: client_reference_id set at
// checkout initiation, metadata.user_id as fallback.
func userIDFromSession(session *stripe.CheckoutSession) uint {
	ref := session.ClientReferenceID
	if ref == "" && session.Metadata != nil {
		ref = session.Metadata["user_id"]
	}
	if ref == "" {
		return 0
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
