package entitlement

import (
	"testing"
	"time"

	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestDerive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		user       users.User
		wantPro    bool
		wantTrial  bool
		wantAccess bool
	}{
		{
			name: "active paid tier is pro",
			user: users.User{
				SubscriptionStatus: users.StatusActive,
				SubscriptionTier:   plans.TierPro,
			},
			wantPro:    true,
			wantAccess: true,
		},
		{
			name: "active free tier is not pro",
			user: users.User{
				SubscriptionStatus: users.StatusActive,
				SubscriptionTier:   plans.TierFree,
			},
		},
		{
			name: "past_due keeps tier but loses access",
			user: users.User{
				SubscriptionStatus: users.StatusPastDue,
				SubscriptionTier:   plans.TierPro,
			},
		},
		{
			name: "canceled paid tier is not pro",
			user: users.User{
				SubscriptionStatus: users.StatusCanceled,
				SubscriptionTier:   plans.TierElite,
			},
		},
		{
			name: "running trial grants access",
			user: users.User{
				SubscriptionStatus: users.StatusTrialing,
				SubscriptionTier:   plans.TierFree,
				TrialEndsAt:        timePtr(now.Add(7 * 24 * time.Hour)),
			},
			wantTrial:  true,
			wantAccess: true,
		},
		{
			name: "expired trial grants nothing regardless of status",
			user: users.User{
				SubscriptionStatus: users.StatusTrialing,
				SubscriptionTier:   plans.TierFree,
				TrialEndsAt:        timePtr(now.Add(-time.Hour)),
			},
		},
		{
			name: "trialing without trial end is not trialing",
			user: users.User{
				SubscriptionStatus: users.StatusTrialing,
				SubscriptionTier:   plans.TierFree,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := Derive(now, tt.user)
			assert.Equal(t, tt.wantPro, ent.IsPro)
			assert.Equal(t, tt.wantTrial, ent.IsTrialing)
			assert.Equal(t, tt.wantAccess, ent.CanAccessGatedFeatures)
			if !tt.wantTrial {
				assert.Nil(t, ent.DaysLeftInTrial)
			}
		})
	}
}

func TestDeriveDaysLeftInTrial(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		trialEnd time.Time
		want     int
	}{
		{"36 hours left rounds up to 2", now.Add(36 * time.Hour), 2},
		{"exactly 7 days", now.Add(7 * 24 * time.Hour), 7},
		{"one minute left counts as 1", now.Add(time.Minute), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := users.User{
				SubscriptionStatus: users.StatusTrialing,
				SubscriptionTier:   plans.TierFree,
				TrialEndsAt:        timePtr(tt.trialEnd),
			}
			ent := Derive(now, u)
			require.NotNil(t, ent.DaysLeftInTrial)
			assert.Equal(t, tt.want, *ent.DaysLeftInTrial)
			assert.GreaterOrEqual(t, *ent.DaysLeftInTrial, 0)
		})
	}
}

// A fresh signup gets 14 days; one day past the window the trial is
// gone and access depends entirely on IsPro.
func TestDeriveTrialExpiryScenario(t *testing.T) {
	signup := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	u := users.User{
		SubscriptionStatus: users.StatusTrialing,
		SubscriptionTier:   plans.TierFree,
		TrialStartAt:       timePtr(signup),
		TrialEndsAt:        timePtr(signup.AddDate(0, 0, 14)),
	}

	ent := Derive(signup, u)
	require.True(t, ent.IsTrialing)
	require.NotNil(t, ent.DaysLeftInTrial)
	assert.Equal(t, 14, *ent.DaysLeftInTrial)
	assert.True(t, ent.CanAccessGatedFeatures)

	later := Derive(signup.AddDate(0, 0, 15), u)
	assert.False(t, later.IsTrialing)
	assert.Nil(t, later.DaysLeftInTrial)
	assert.Equal(t, later.IsPro, later.CanAccessGatedFeatures)
	assert.False(t, later.CanAccessGatedFeatures)
}

func TestCapabilitiesAndLimits(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	trialUser := users.User{
		SubscriptionStatus: users.StatusTrialing,
		SubscriptionTier:   plans.TierFree,
		TrialEndsAt:        timePtr(now.Add(24 * time.Hour)),
	}
	trialEnt := Derive(now, trialUser)
	assert.Contains(t, CapabilitiesFor(trialEnt, plans.TierFree), "clients.manage")
	assert.Equal(t, trialClientLimit, ClientLimitFor(trialEnt, plans.TierFree))

	eliteUser := users.User{
		SubscriptionStatus: users.StatusActive,
		SubscriptionTier:   plans.TierElite,
	}
	eliteEnt := Derive(now, eliteUser)
	assert.Contains(t, CapabilitiesFor(eliteEnt, plans.TierElite), "team.seats")
	assert.Equal(t, ClientLimitUnlimited, ClientLimitFor(eliteEnt, plans.TierElite))

	lockedUser := users.User{
		SubscriptionStatus: users.StatusCanceled,
		SubscriptionTier:   plans.TierFree,
	}
	lockedEnt := Derive(now, lockedUser)
	assert.Empty(t, CapabilitiesFor(lockedEnt, plans.TierFree))
}
