package routes

import (
	adminapi "coachplan-app/internal/api/admin"
	authapi "coachplan-app/internal/api/auth"
	"coachplan-app/internal/api/billing"
	clientsapi "coachplan-app/internal/api/clients"
	"coachplan-app/internal/api/plans"
	stripewebhooks "coachplan-app/internal/api/stripewebhook"
	"coachplan-app/internal/api/users"
	"coachplan-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Raw body route: no sanitization, Stripe signs the exact payload
	webhook := stripewebhooks.NewDefaultHandler()
	r.POST("/webhook", webhook.HandleWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes with input sanitization
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plans.ListPlans)
	public.GET("/verify", users.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)

	// Gated: active subscription or running trial required
	gated := auth.Group("/")
	gated.Use(middleware.RequireGatedAccess())

	gated.GET("/clients", clientsapi.ListClients)
	gated.POST("/clients", clientsapi.CreateClient)
	gated.GET("/clients/:id", clientsapi.GetClient)
	gated.PUT("/clients/:id", clientsapi.UpdateClient)
	gated.DELETE("/clients/:id", clientsapi.DeleteClient)

	gated.POST("/clients/:id/programs", clientsapi.CreateProgram)
	gated.PUT("/programs/:id", clientsapi.UpdateProgram)
	gated.DELETE("/programs/:id", clientsapi.DeleteProgram)

	gated.POST("/change-plan", billing.ChangePlan)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.POST("/sync-plans", plans.SyncPlansFromStripe)
}
