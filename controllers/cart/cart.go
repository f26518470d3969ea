package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/store"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items     []models.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
}

func respond(c *gin.Context, status int, cart store.Cart) {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	c.JSON(status, cartResponse{
		Items:     cart.Items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	})
}

func currentUserID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userID, _ := userIDVal.(string)
	return userID
}

func handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
	case errors.Is(err, store.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	case errors.Is(err, store.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}

// GET /user/cart
func GetCart(s *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, s.Load(c.Request.Context(), currentUserID(c)))
	}
}

// POST /user/cart/items
func AddItem(s *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		cart, err := s.Add(c.Request.Context(), currentUserID(c), input.ProductID, input.Quantity)
		if err != nil {
			handleStoreError(c, err)
			return
		}
		respond(c, http.StatusCreated, cart)
	}
}

// PATCH /user/cart/items/:id
func UpdateItemQuantity(s *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := s.UpdateQuantity(c.Request.Context(), currentUserID(c), c.Param("id"), input.Quantity)
		if err != nil {
			handleStoreError(c, err)
			return
		}
		respond(c, http.StatusOK, cart)
	}
}

// DELETE /user/cart/items/:id
func RemoveItem(s *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := s.Remove(c.Request.Context(), currentUserID(c), c.Param("id"))
		if err != nil {
			handleStoreError(c, err)
			return
		}
		respond(c, http.StatusOK, cart)
	}
}

// DELETE /user/cart
func ClearCart(s *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Clear(c.Request.Context(), currentUserID(c)); err != nil {
			handleStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
