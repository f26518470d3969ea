package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ki-assist/storefront-api/auth"
	"github.com/ki-assist/storefront-api/checkout"
	"github.com/ki-assist/storefront-api/paypal"
	"github.com/ki-assist/storefront-api/realtime"
	"github.com/ki-assist/storefront-api/repository"
	"github.com/ki-assist/storefront-api/store"
)

// Deps bundles everything the route groups need.
type Deps struct {
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Users    repository.UserRepository
	Cart     *store.CartStore
	Checkout *checkout.Service
	PayPal   *paypal.Client
	Auth     *auth.Service
	Hub      *realtime.Hub
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public routes (no middleware)
	SetupPublicRoutes(r, deps)

	// User routes (JWT-protected)
	SetupUserRoutes(r, deps)

	// Payment routes
	SetupPaymentRoutes(r, deps)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, deps)
}
