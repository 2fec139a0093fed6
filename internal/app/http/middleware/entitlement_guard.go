package middleware

import (
	"net/http"
	"time"

	"coachplan-app/database"
	"coachplan-app/internal/domain/entitlement"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireGatedAccess derives entitlements from the stored record on
// every request. There is no cached flag to go stale: the moment a
// trial ends or a subscription is canceled, the next request is denied.
func RequireGatedAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user users.User
		if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ent := entitlement.Derive(time.Now(), user)
		if !ent.CanAccessGatedFeatures {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Active subscription or trial required",
			})
			return
		}

		c.Set("subscription_tier", user.SubscriptionTier)
		c.Next()
	}
}
