package entitlement

import "coachplan-app/internal/domain/plans"

// ClientLimitUnlimited disables the roster cap.
const ClientLimitUnlimited = 0

const trialClientLimit = 5

func CapabilitiesFor(ent Entitlements, tier string) []string {
	if !ent.CanAccessGatedFeatures {
		return []string{}
	}

	// trial: full toolset, capped roster
	if ent.IsTrialing && !ent.IsPro {
		return []string{"clients.manage", "plans.generate", "plans.export_pdf"}
	}

	switch tier {
	case plans.TierStarter:
		return []string{"clients.manage", "plans.generate", "plans.export_pdf"}
	case plans.TierPro:
		return []string{"clients.manage", "plans.generate", "plans.export_pdf", "branding.custom"}
	case plans.TierElite:
		return []string{"clients.manage", "plans.generate", "plans.export_pdf", "branding.custom", "team.seats"}
	default:
		return []string{"clients.manage", "plans.generate", "plans.export_pdf"}
	}
}

// ClientLimitFor caps how many clients a trainer can keep on the
// roster. Zero means no cap.
func ClientLimitFor(ent Entitlements, tier string) int {
	if ent.IsTrialing && !ent.IsPro {
		return trialClientLimit
	}
	switch tier {
	case plans.TierStarter:
		return 15
	case plans.TierPro:
		return 50
	case plans.TierElite:
		return ClientLimitUnlimited
	default:
		return trialClientLimit
	}
}
