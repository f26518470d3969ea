package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/ki-assist/storefront-api/controllers/cart"
	checkoutControllers "github.com/ki-assist/storefront-api/controllers/checkout"
	orderControllers "github.com/ki-assist/storefront-api/controllers/order"
	userControllers "github.com/ki-assist/storefront-api/controllers/user"
	"github.com/ki-assist/storefront-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("", userControllers.GetUser(deps.Users))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(deps.Cart))
			cartGroup.POST("/items", cartControllers.AddItem(deps.Cart))
			cartGroup.PATCH("/items/:id", cartControllers.UpdateItemQuantity(deps.Cart))
			cartGroup.DELETE("/items/:id", cartControllers.RemoveItem(deps.Cart))
			cartGroup.DELETE("", cartControllers.ClearCart(deps.Cart))
		}

		userGroup.POST("/checkout", checkoutControllers.PlaceOrder(deps.Checkout))

		userGroup.GET("/orders", orderControllers.GetUserOrders(deps.Orders))
		userGroup.GET("/orders/:id", orderControllers.GetUserOrderByID(deps.Orders))
	}
}
