package stripewebhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

type fakeLedger struct {
	seen   map[string]bool
	marked []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seen: map[string]bool{}}
}

func (l *fakeLedger) Seen(eventID string) (bool, error) {
	return l.seen[eventID], nil
}

func (l *fakeLedger) Mark(eventID, eventType string, procErr error) error {
	if procErr == nil {
		l.seen[eventID] = true
	}
	l.marked = append(l.marked, eventID)
	return nil
}

func newWebhookRouter(store users.Store, ledger *fakeLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewReducer(store, testCatalog), ledger, testWebhookSecret)
	r.POST("/webhook", h.HandleWebhook)
	return r
}

// stripeSignature computes the v1 scheme Stripe signs deliveries with:
// HMAC-SHA256 over "<timestamp>.<payload>".
func stripeSignature(payload []byte, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func eventPayload(id, eventType string, created time.Time, object string) []byte {
	return []byte(fmt.Sprintf(
		`{"id": %q, "type": %q, "created": %d, "data": {"object": %s}}`,
		id, eventType, created.Unix(), object,
	))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := newFakeStore()
	r := newWebhookRouter(store, newFakeLedger())

	payload := eventPayload("evt_1", "invoice.paid", time.Now(), `{"id": "in_1"}`)

	w := postWebhook(r, payload, "t=123,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// valid signature over different content
	w = postWebhook(r, payload, stripeSignature([]byte("other"), time.Now()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, store.patches)
}

func TestWebhookAcksUnknownEventType(t *testing.T) {
	r := newWebhookRouter(newFakeStore(), newFakeLedger())

	payload := eventPayload("evt_1", "charge.refunded", time.Now(), `{"id": "ch_1"}`)
	w := postWebhook(r, payload, stripeSignature(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")
}

func TestWebhookDeduplicatesByEventID(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seen["evt_dup"] = true
	store := newFakeStore(&users.User{ID: 7, StripeCustomerID: strPtr("cus_1")})
	r := newWebhookRouter(store, ledger)

	payload := eventPayload("evt_dup", "invoice.paid", time.Now(), `{
		"id": "in_1",
		"customer": "cus_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)
	w := postWebhook(r, payload, stripeSignature(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
	assert.Empty(t, store.patches)
}

func TestWebhookInvoicePaidEndToEnd(t *testing.T) {
	user := &users.User{ID: 7, StripeCustomerID: strPtr("cus_1"), SubscriptionTier: plans.TierFree}
	store := newFakeStore(user)
	ledger := newFakeLedger()
	r := newWebhookRouter(store, ledger)

	created := time.Now().Truncate(time.Second)
	payload := eventPayload("evt_paid_1", "invoice.paid", created, `{
		"id": "in_1",
		"customer": "cus_1",
		"subscription": "sub_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)

	w := postWebhook(r, payload, stripeSignature(payload, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, plans.TierPro, user.SubscriptionTier)
	assert.Equal(t, users.StatusActive, user.SubscriptionStatus)
	require.NotNil(t, user.StripeSubscriptionID)
	assert.Equal(t, "sub_1", *user.StripeSubscriptionID)
	require.NotNil(t, user.LastBillingEventAt)
	assert.True(t, user.LastBillingEventAt.Equal(created))

	assert.True(t, ledger.seen["evt_paid_1"])

	// redelivery of the same event id is a no-op
	w = postWebhook(r, payload, stripeSignature(payload, time.Now()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
	assert.Len(t, store.patches, 1)
}

func TestWebhookMalformedPayloadIsAcked(t *testing.T) {
	store := newFakeStore(&users.User{ID: 7, StripeCustomerID: strPtr("cus_1")})
	r := newWebhookRouter(store, newFakeLedger())

	// lines as a bare string cannot unmarshal into the invoice shape
	payload := eventPayload("evt_bad", "invoice.paid", time.Now(), `{"id": "in_1", "lines": 42}`)
	w := postWebhook(r, payload, stripeSignature(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.patches)
}

func TestWebhookStorageFailureReturns500(t *testing.T) {
	store := newFakeStore(&users.User{ID: 7, StripeCustomerID: strPtr("cus_1")})
	store.patchErr = fmt.Errorf("db down")
	ledger := newFakeLedger()
	r := newWebhookRouter(store, ledger)

	payload := eventPayload("evt_500", "invoice.paid", time.Now(), `{
		"id": "in_1",
		"customer": "cus_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)
	w := postWebhook(r, payload, stripeSignature(payload, time.Now()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// failed events are recorded but not marked processed, so Stripe's
	// retry gets to run again
	assert.False(t, ledger.seen["evt_500"])
	assert.Contains(t, ledger.marked, "evt_500")
}
