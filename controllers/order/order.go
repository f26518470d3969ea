package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func currentUserID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userID, _ := userIDVal.(string)
	return userID
}

// GET /user/orders — the order-history dashboard.
func GetUserOrders(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListByUser(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /user/orders/:id — ownership is enforced by the repository lookup.
func GetUserOrderByID(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.GetForUser(c.Request.Context(), c.Param("id"), currentUserID(c))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrders(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /admin/orders/:id/status — driven by the external fulfillment
// process, never by the storefront client.
func UpdateOrderStatus(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), newStatus); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /admin/orders/:id/payment-status
func UpdatePaymentStatus(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := orders.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), newStatus); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}

// DELETE /admin/orders/:id
func DeleteOrder(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
