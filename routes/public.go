package routes

import (
	"github.com/gin-gonic/gin"

	contactControllers "github.com/ki-assist/storefront-api/controllers/contact"
	productControllers "github.com/ki-assist/storefront-api/controllers/product"
)

// SetupPublicRoutes registers the endpoints that need no identity: login,
// the catalog, the contact form and the realtime change feed.
func SetupPublicRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", deps.Auth.LoginHandler())
	}

	r.GET("/products", productControllers.GetProducts(deps.Products))
	r.GET("/products/:id", productControllers.GetProductByID(deps.Products))

	r.POST("/contact", contactControllers.SubmitContactForm())

	r.GET("/ws", deps.Hub.Handler())
}
