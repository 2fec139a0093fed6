package users

import (
	"time"

	"coachplan-app/internal/domain/entitlement"
	"coachplan-app/internal/domain/users"
)

func BuildTrialDTO(ent entitlement.Entitlements, u users.User) *TrialDTO {
	if u.TrialStartAt == nil || u.TrialEndsAt == nil {
		return nil
	}

	daysLeft := ent.DaysLeftInTrial
	if daysLeft == nil {
		// expired trial still shows its window, with zero days left
		zero := 0
		daysLeft = &zero
	}

	return &TrialDTO{
		StartsAt: u.TrialStartAt,
		EndsAt:   u.TrialEndsAt,
		DaysLeft: daysLeft,
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.StripeCustomerID == nil && u.StripeSubscriptionID == nil {
		return nil
	}
	return &SubscriptionDTO{
		StripeSubscriptionID: u.StripeSubscriptionID,
		StripeCustomerID:     u.StripeCustomerID,
		CurrentPeriodEnd:     u.CurrentPeriodEnd,
	}
}

func BuildMeResponse(now time.Time, u users.User) MeResponse {
	ent := entitlement.Derive(now, u)

	return MeResponse{
		User: UserDTO{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.Name,
			Lastname:   u.Lastname,
			Tel:        stringPtrIfNotEmpty(u.Tel),
			Role:       u.Role,
			IsVerified: u.IsVerified,
		},
		Billing: BillingDTO{
			Tier:         u.SubscriptionTier,
			Status:       u.SubscriptionStatus,
			Trial:        BuildTrialDTO(ent, u),
			Subscription: BuildSubscriptionDTO(u),
		},
		Entitlements: ent,
		Capabilities: entitlement.CapabilitiesFor(ent, u.SubscriptionTier),
		ClientLimit:  entitlement.ClientLimitFor(ent, u.SubscriptionTier),
	}
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
