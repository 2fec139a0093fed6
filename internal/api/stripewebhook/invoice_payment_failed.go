package stripewebhooks

import (
	"time"

	"coachplan-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// HandleInvoicePaymentFailed flags the record past_due but leaves the
// tier alone. Revocation happens when the provider follows up with a
// subscription.updated or subscription.deleted event; in the meantime
// the entitlement deriver already denies gated access for past_due.
func (r *Reducer) HandleInvoicePaymentFailed(eventTime time.Time, inv *stripe.Invoice) error {
	if inv.Customer == nil || inv.Customer.ID == "" {
		log.Warn().Str("invoice_id", inv.ID).Msg("invoice without customer, skipping")
		return nil
	}

	user, err := r.userByCustomer(inv.Customer.ID)
	if err != nil || user == nil {
		return err
	}

	patch := map[string]interface{}{
		"subscription_status": users.StatusPastDue,
	}

	return r.applyPatch(user, eventTime, patch)
}
