package billing

import (
	"net/http"
	"os"
	"time"

	"coachplan-app/database"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/invoice"
)

type PaymentDTO struct {
	InvoiceID  string    `json:"invoice_id"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	HostedURL  string    `json:"hosted_url,omitempty"`
	InvoicePDF string    `json:"invoice_pdf,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetPaymentHistory lists the user's invoices straight from Stripe.
// Payments are not mirrored locally; the provider stays the source of
// truth and the webhook reducer keeps its single merge-write.
func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusOK, []PaymentDTO{})
		return
	}

	params := &stripe.InvoiceListParams{
		Customer: stripe.String(*user.StripeCustomerID),
	}
	it := invoice.List(params)

	payments := []PaymentDTO{}
	for it.Next() {
		inv := it.Invoice()
		payments = append(payments, PaymentDTO{
			InvoiceID:  inv.ID,
			Status:     string(inv.Status),
			Amount:     float64(inv.AmountPaid) / 100.0,
			Currency:   string(inv.Currency),
			HostedURL:  inv.HostedInvoiceURL,
			InvoicePDF: inv.InvoicePDF,
			CreatedAt:  time.Unix(inv.Created, 0),
		})
	}
	if err := it.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
