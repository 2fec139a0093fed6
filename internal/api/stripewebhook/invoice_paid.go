package stripewebhooks

import (
	"time"

	"coachplan-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// HandleInvoicePaid is the authoritative access grant: payment has
// settled, so the tier mapped from the paid price goes live.
func (r *Reducer) HandleInvoicePaid(eventTime time.Time, inv *stripe.Invoice) error {
	if inv.Customer == nil || inv.Customer.ID == "" {
		log.Warn().Str("invoice_id", inv.ID).Msg("invoice without customer, skipping")
		return nil
	}
	if inv.Lines == nil || len(inv.Lines.Data) == 0 || inv.Lines.Data[0].Price == nil {
		log.Warn().Str("invoice_id", inv.ID).Msg("invoice without line items, skipping")
		return nil
	}

	user, err := r.userByCustomer(inv.Customer.ID)
	if err != nil || user == nil {
		return err
	}

	priceID := inv.Lines.Data[0].Price.ID
	tier, ok := r.catalog.TierForPrice(priceID)
	if !ok {
		log.Error().Str("price_id", priceID).Msg("paid price not in tier catalog, event dropped")
		return nil
	}

	patch := map[string]interface{}{
		"subscription_tier":   tier,
		"subscription_status": users.StatusActive,
	}
	if inv.Subscription != nil && inv.Subscription.ID != "" {
		patch["stripe_subscription_id"] = inv.Subscription.ID
	}

	return r.applyPatch(user, eventTime, patch)
}
