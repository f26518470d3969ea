package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ki-assist/storefront-api/paypal"
)

type CreateSubscriptionInput struct {
	Plan string `json:"plan" binding:"required"`
}

// POST /payment/subscriptions
// Returns the PayPal approval URL the client redirects the buyer to.
func CreateSubscription(client *paypal.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateSubscriptionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		approvalURL, err := client.CreateSubscription(c.Request.Context(), input.Plan)
		if err != nil {
			if errors.Is(err, paypal.ErrUnknownPlan) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
				return
			}
			log.Error().Err(err).Str("plan", input.Plan).Msg("paypal subscription creation failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": approvalURL})
	}
}
