package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"coachplan-app/database"
	"coachplan-app/internal/domain/billing"
	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

type Handler struct {
	reducer *Reducer
	ledger  billing.EventLedger
	secret  string
}

func NewHandler(reducer *Reducer, ledger billing.EventLedger, secret string) *Handler {
	return &Handler{reducer: reducer, ledger: ledger, secret: secret}
}

// NewDefaultHandler wires the webhook against the shared database
// connection, the DB-backed tier catalog and the env webhook secret.
func NewDefaultHandler() *Handler {
	return NewHandler(
		NewReducer(users.NewGormStore(database.DB), plans.CatalogFromDB(database.DB)),
		billing.NewGormLedger(database.DB),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Warn().Err(err).Msg("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	if seen, err := h.ledger.Seen(event.ID); err == nil && seen {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	procErr := h.dispatch(&event)

	if markErr := h.ledger.Mark(event.ID, string(event.Type), procErr); markErr != nil {
		log.Error().Err(markErr).Str("event_id", event.ID).Msg("failed to record webhook event")
	}

	if procErr != nil {
		// Non-2xx so Stripe redelivers per its own retry policy.
		c.JSON(http.StatusInternalServerError, gin.H{"error": procErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// dispatch routes a verified event to the reducer. Unparseable payloads
// are warned about and acknowledged: redelivering a malformed event
// cannot make it parse, and a 500 would block the channel permanently.
func (h *Handler) dispatch(event *stripe.Event) error {
	eventTime := time.Unix(event.Created, 0)

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("unparseable checkout session payload, skipping")
			return nil
		}
		return h.reducer.HandleCheckoutCompleted(eventTime, &session)

	case "invoice.paid":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("unparseable invoice payload, skipping")
			return nil
		}
		return h.reducer.HandleInvoicePaid(eventTime, &inv)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("unparseable invoice payload, skipping")
			return nil
		}
		return h.reducer.HandleInvoicePaymentFailed(eventTime, &inv)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("unparseable subscription payload, skipping")
			return nil
		}
		return h.reducer.HandleSubscriptionUpdated(eventTime, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("unparseable subscription payload, skipping")
			return nil
		}
		return h.reducer.HandleSubscriptionDeleted(eventTime, &sub)

	default:
		// Acknowledge unknown events to avoid retries
		log.Info().Str("type", string(event.Type)).Msg("unhandled stripe event ignored")
		return nil
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
