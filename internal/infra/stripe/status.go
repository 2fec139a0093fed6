package stripe

import (
	"strings"

	"coachplan-app/internal/domain/users"
)

// NormalizeStatus maps a Stripe subscription status onto the internal
// status set. Unknown provider values pass through verbatim; the
// entitlement deriver grants nothing for them.
func NormalizeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "":
		return users.StatusNone
	case "active":
		return users.StatusActive
	case "trialing":
		return users.StatusTrialing
	case "past_due", "unpaid":
		return users.StatusPastDue
	case "canceled", "incomplete_expired":
		return users.StatusCanceled
	default:
		return strings.TrimSpace(s)
	}
}
