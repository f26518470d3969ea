package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ki-assist/storefront-api/checkout"
	"github.com/ki-assist/storefront-api/models"
)

type PlaceOrderInput struct {
	Name          string `json:"name" binding:"required"`
	Street        string `json:"street" binding:"required"`
	City          string `json:"city" binding:"required"`
	PostalCode    string `json:"postal_code" binding:"required"`
	Country       string `json:"country" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func currentUserID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userID, _ := userIDVal.(string)
	return userID
}

// POST /user/checkout
func PlaceOrder(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		address := models.ShippingAddress{
			Name:       input.Name,
			Street:     input.Street,
			City:       input.City,
			PostalCode: input.PostalCode,
			Country:    input.Country,
		}

		order, err := svc.PlaceOrder(c.Request.Context(), currentUserID(c), address, input.PaymentMethod)
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrAuthRequired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, checkout.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
			default:
				log.Error().Err(err).Msg("failed to place order")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order. Please try again."})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"order_id":  order.ID,
			"order_ref": order.OrderRef,
			"total":     order.Total,
		})
	}
}
