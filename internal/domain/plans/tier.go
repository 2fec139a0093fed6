package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierFree    = "free"
	TierStarter = "starter"
	TierPro     = "pro"
	TierElite   = "elite"
)

// ParseTier normalizes a raw tier label. The bool is false for anything
// outside the known set.
func ParseTier(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TierFree:
		return TierFree, true
	case TierStarter:
		return TierStarter, true
	case TierPro:
		return TierPro, true
	case TierElite:
		return TierElite, true
	default:
		return "", false
	}
}

func IsPaidTier(tier string) bool {
	switch tier {
	case TierStarter, TierPro, TierElite:
		return true
	default:
		return false
	}
}
