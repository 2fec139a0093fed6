package admin

import (
	"net/http"
	"time"

	"coachplan-app/database"
	"coachplan-app/internal/domain/clients"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Lastname           string     `json:"lastname"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	IsVerified         bool       `json:"is_verified"`
	SubscriptionTier   string     `json:"subscription_tier"`
	SubscriptionStatus string     `json:"subscription_status"`
	StripeCustomerID   *string    `json:"stripe_customer_id,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
}

type AdminStats struct {
	TotalUsers   int            `json:"total_users"`
	TotalClients int            `json:"total_clients"`
	UsersPerTier map[string]int `json:"users_per_tier"`
	Trialing     int            `json:"trialing"`
	PastDue      int            `json:"past_due"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	var totalUsers int64
	var totalClients int64
	var trialing int64
	var pastDue int64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&clients.Client{}).Count(&totalClients)
	database.DB.Model(&users.User{}).Where("subscription_status = ?", users.StatusTrialing).Count(&trialing)
	database.DB.Model(&users.User{}).Where("subscription_status = ?", users.StatusPastDue).Count(&pastDue)

	stats.TotalUsers = int(totalUsers)
	stats.TotalClients = int(totalClients)
	stats.Trialing = int(trialing)
	stats.PastDue = int(pastDue)

	type TierCount struct {
		Tier  string
		Count int
	}
	var counts []TierCount

	database.DB.
		Table("users").
		Select("subscription_tier AS tier, COUNT(id) AS count").
		Group("subscription_tier").
		Scan(&counts)

	stats.UsersPerTier = map[string]int{}
	for _, tc := range counts {
		stats.UsersPerTier[tc.Tier] = tc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var adminUsers []AdminUser
	for _, u := range all {
		adminUsers = append(adminUsers, AdminUser{
			ID:                 u.ID,
			Name:               u.Name,
			Lastname:           u.Lastname,
			Email:              u.Email,
			Role:               u.Role,
			IsVerified:         u.IsVerified,
			SubscriptionTier:   u.SubscriptionTier,
			SubscriptionStatus: u.SubscriptionStatus,
			StripeCustomerID:   u.StripeCustomerID,
			TrialEndsAt:        u.TrialEndsAt,
			CurrentPeriodEnd:   u.CurrentPeriodEnd,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var roster []clients.Client
	if err := database.DB.Where("user_id = ?", userID).Find(&roster).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"clients": roster,
	})
}
