package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/ki-assist/storefront-api/controllers/order"
	productControllers "github.com/ki-assist/storefront-api/controllers/product"
	"github.com/ki-assist/storefront-api/middleware"
)

// SetupAdminRoutes registers the API-key-protected management surface.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		products := adminGroup.Group("/products")
		{
			products.POST("", productControllers.CreateProduct(deps.Products))
			products.PUT("/:id", productControllers.UpdateProduct(deps.Products))
			products.DELETE("/:id", productControllers.DeleteProduct(deps.Products))
			products.GET("/export", productControllers.ExportProductsToExcel(deps.Products))
		}

		orders := adminGroup.Group("/orders")
		{
			orders.GET("", orderControllers.GetAllOrders(deps.Orders))
			orders.GET("/export", orderControllers.ExportOrdersToExcel(deps.Orders))
			orders.PUT("/:id/status", orderControllers.UpdateOrderStatus(deps.Orders))
			orders.PUT("/:id/payment-status", orderControllers.UpdatePaymentStatus(deps.Orders))
			orders.DELETE("/:id", orderControllers.DeleteOrder(deps.Orders))
		}
	}
}
