package stripewebhooks

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

// fakeStore keeps users in memory and replays merge-writes onto them,
// recording every patch for assertions.
type fakeStore struct {
	byID     map[uint]*users.User
	patches  []map[string]interface{}
	patchErr error
}

func newFakeStore(us ...*users.User) *fakeStore {
	s := &fakeStore{byID: map[uint]*users.User{}}
	for _, u := range us {
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeStore) FindByID(id uint) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) FindByStripeCustomerID(customerID string) (*users.User, error) {
	for _, u := range s.byID {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *fakeStore) ApplyPatch(id uint, patch map[string]interface{}) error {
	if s.patchErr != nil {
		return s.patchErr
	}
	u, ok := s.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	cp := map[string]interface{}{}
	for k, v := range patch {
		cp[k] = v
	}
	s.patches = append(s.patches, cp)

	for k, v := range patch {
		switch k {
		case "subscription_tier":
			u.SubscriptionTier = v.(string)
		case "subscription_status":
			u.SubscriptionStatus = v.(string)
		case "stripe_customer_id":
			str := v.(string)
			u.StripeCustomerID = &str
		case "stripe_subscription_id":
			if v == nil {
				u.StripeSubscriptionID = nil
			} else {
				str := v.(string)
				u.StripeSubscriptionID = &str
			}
		case "current_period_end":
			tm := v.(time.Time)
			u.CurrentPeriodEnd = &tm
		case "last_billing_event_at":
			tm := v.(time.Time)
			u.LastBillingEventAt = &tm
		}
	}
	return nil
}

var testCatalog = plans.StaticCatalog{
	"price_starter_monthly": plans.TierStarter,
	"price_pro_monthly":     plans.TierPro,
	"price_elite_monthly":   plans.TierElite,
}

func strPtr(s string) *string { return &s }

// invoiceFromJSON builds an invoice the same way the webhook handler
// does, so expandable references arrive as bare ids.
func invoiceFromJSON(t *testing.T, raw string) *stripe.Invoice {
	t.Helper()
	var inv stripe.Invoice
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))
	return &inv
}

func TestCheckoutThenInvoicePaid(t *testing.T) {
	user := &users.User{ID: 7, SubscriptionTier: plans.TierFree, SubscriptionStatus: users.StatusTrialing}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	t0 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	session := &stripe.CheckoutSession{
		ID:                "cs_test_1",
		ClientReferenceID: "7",
		Customer:          &stripe.Customer{ID: "cus_1"},
		Subscription:      &stripe.Subscription{ID: "sub_1"},
	}
	require.NoError(t, r.HandleCheckoutCompleted(t0, session))

	// checkout alone never grants access
	assert.Equal(t, plans.TierFree, user.SubscriptionTier)
	assert.Equal(t, users.StatusTrialing, user.SubscriptionStatus)
	require.NotNil(t, user.StripeCustomerID)
	assert.Equal(t, "cus_1", *user.StripeCustomerID)
	require.NotNil(t, user.StripeSubscriptionID)
	assert.Equal(t, "sub_1", *user.StripeSubscriptionID)

	inv := invoiceFromJSON(t, `{
		"id": "in_1",
		"customer": "cus_1",
		"subscription": "sub_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)
	require.NoError(t, r.HandleInvoicePaid(t0.Add(time.Minute), inv))

	assert.Equal(t, plans.TierPro, user.SubscriptionTier)
	assert.Equal(t, users.StatusActive, user.SubscriptionStatus)
	require.NotNil(t, user.LastBillingEventAt)
	assert.True(t, user.LastBillingEventAt.Equal(t0.Add(time.Minute)))
	assert.Len(t, store.patches, 2)
}

func TestInvoicePaidRedeliveryConverges(t *testing.T) {
	user := &users.User{ID: 7, StripeCustomerID: strPtr("cus_1"), SubscriptionTier: plans.TierFree}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	inv := invoiceFromJSON(t, `{
		"id": "in_1",
		"customer": "cus_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_starter_monthly"}}]}
	}`)
	t0 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.HandleInvoicePaid(t0, inv))
	require.NoError(t, r.HandleInvoicePaid(t0, inv))

	assert.Equal(t, plans.TierStarter, user.SubscriptionTier)
	assert.Equal(t, users.StatusActive, user.SubscriptionStatus)
}

func TestStaleEventIgnored(t *testing.T) {
	t1 := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	user := &users.User{
		ID:                 7,
		StripeCustomerID:   strPtr("cus_1"),
		SubscriptionTier:   plans.TierFree,
		SubscriptionStatus: users.StatusCanceled,
		LastBillingEventAt: &t1,
	}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	// delivered a day late, after the cancellation already landed
	inv := invoiceFromJSON(t, `{
		"id": "in_old",
		"customer": "cus_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)
	require.NoError(t, r.HandleInvoicePaid(t1.Add(-24*time.Hour), inv))

	assert.Equal(t, plans.TierFree, user.SubscriptionTier)
	assert.Equal(t, users.StatusCanceled, user.SubscriptionStatus)
	assert.Empty(t, store.patches)
}

func TestSubscriptionUpdated(t *testing.T) {
	user := &users.User{ID: 7, StripeCustomerID: strPtr("cus_1"), SubscriptionTier: plans.TierPro, SubscriptionStatus: users.StatusActive}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	periodEnd := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sub := &stripe.Subscription{
		ID:               "sub_1",
		Customer:         &stripe.Customer{ID: "cus_1"},
		Status:           stripe.SubscriptionStatusPastDue,
		CurrentPeriodEnd: periodEnd.Unix(),
	}
	require.NoError(t, r.HandleSubscriptionUpdated(time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), sub))

	assert.Equal(t, users.StatusPastDue, user.SubscriptionStatus)
	assert.Equal(t, plans.TierPro, user.SubscriptionTier)
	require.NotNil(t, user.CurrentPeriodEnd)
	assert.True(t, user.CurrentPeriodEnd.Equal(periodEnd))
}

func TestSubscriptionDeleted(t *testing.T) {
	user := &users.User{
		ID:                   7,
		StripeCustomerID:     strPtr("cus_1"),
		StripeSubscriptionID: strPtr("sub_1"),
		SubscriptionTier:     plans.TierElite,
		SubscriptionStatus:   users.StatusActive,
	}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	sub := &stripe.Subscription{ID: "sub_1", Customer: &stripe.Customer{ID: "cus_1"}}
	require.NoError(t, r.HandleSubscriptionDeleted(time.Now(), sub))

	assert.Equal(t, plans.TierFree, user.SubscriptionTier)
	assert.Equal(t, users.StatusCanceled, user.SubscriptionStatus)
	assert.Nil(t, user.StripeSubscriptionID)
}

func TestInvoicePaymentFailedKeepsTier(t *testing.T) {
	user := &users.User{ID: 7, StripeCustomerID: strPtr("cus_1"), SubscriptionTier: plans.TierPro, SubscriptionStatus: users.StatusActive}
	store := newFakeStore(user)
	r := NewReducer(store, testCatalog)

	inv := invoiceFromJSON(t, `{"id": "in_1", "customer": "cus_1"}`)
	require.NoError(t, r.HandleInvoicePaymentFailed(time.Now(), inv))

	assert.Equal(t, users.StatusPastDue, user.SubscriptionStatus)
	assert.Equal(t, plans.TierPro, user.SubscriptionTier)
}

func TestUnresolvableEventsAreDropped(t *testing.T) {
	store := newFakeStore(&users.User{ID: 7, StripeCustomerID: strPtr("cus_1")})
	r := NewReducer(store, testCatalog)
	now := time.Now()

	t.Run("unknown customer", func(t *testing.T) {
		sub := &stripe.Subscription{ID: "sub_x", Customer: &stripe.Customer{ID: "cus_nobody"}}
		assert.NoError(t, r.HandleSubscriptionDeleted(now, sub))
	})

	t.Run("checkout without user reference", func(t *testing.T) {
		session := &stripe.CheckoutSession{ID: "cs_x", Customer: &stripe.Customer{ID: "cus_1"}}
		assert.NoError(t, r.HandleCheckoutCompleted(now, session))
	})

	t.Run("checkout referencing unknown user", func(t *testing.T) {
		session := &stripe.CheckoutSession{ID: "cs_x", ClientReferenceID: "999", Customer: &stripe.Customer{ID: "cus_1"}}
		assert.NoError(t, r.HandleCheckoutCompleted(now, session))
	})

	t.Run("invoice without line items", func(t *testing.T) {
		inv := invoiceFromJSON(t, `{"id": "in_x", "customer": "cus_1"}`)
		assert.NoError(t, r.HandleInvoicePaid(now, inv))
	})

	t.Run("price missing from catalog", func(t *testing.T) {
		inv := invoiceFromJSON(t, `{
			"id": "in_x",
			"customer": "cus_1",
			"lines": {"data": [{"id": "il_1", "price": {"id": "price_mystery"}}]}
		}`)
		assert.NoError(t, r.HandleInvoicePaid(now, inv))
	})

	assert.Empty(t, store.patches)
}

func TestStorageFailurePropagates(t *testing.T) {
	store := newFakeStore(&users.User{ID: 7, StripeCustomerID: strPtr("cus_1")})
	store.patchErr = errors.New("connection reset")
	r := NewReducer(store, testCatalog)

	inv := invoiceFromJSON(t, `{
		"id": "in_1",
		"customer": "cus_1",
		"lines": {"data": [{"id": "il_1", "price": {"id": "price_pro_monthly"}}]}
	}`)
	err := r.HandleInvoicePaid(time.Now(), inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
