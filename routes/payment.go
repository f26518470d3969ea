package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/ki-assist/storefront-api/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	payment := r.Group("/payment")
	{
		// Subscription creation endpoint; returns the PayPal approval URL.
		payment.POST("/subscriptions", paymentControllers.CreateSubscription(deps.PayPal))
	}
}
