// Package checkout converts the current cart into a persisted order. The
// subscription payment path lives in the paypal package; the two are kept
// separate because they serve different payment models.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
	"github.com/ki-assist/storefront-api/store"
)

var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	cart     *store.CartStore
	orders   repository.OrderRepository
	notifier store.Notifier
}

func NewService(cart *store.CartStore, orders repository.OrderRepository, notifier store.Notifier) *Service {
	return &Service{cart: cart, orders: orders, notifier: notifier}
}

// PlaceOrder creates a pending order from the user's cart. The order
// total is the sum of the cart lines at submission time and each order
// item snapshots the product's current unit price. Order, items, stock
// decrement and cart clear are committed atomically, so a failure leaves
// the cart intact and no order behind.
func (s *Service) PlaceOrder(ctx context.Context, userID string, address models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	cart := s.cart.Load(ctx, userID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	order := &models.Order{
		OrderRef:        generateOrderRef(),
		UserID:          userID,
		Items:           items,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   paymentMethod,
		Total:           cart.Total(),
		ShippingAddress: address,
	}

	if err := s.orders.Place(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	// Place empties the cart inside its transaction, so subscribers have
	// to be told here; the cart store never sees that delete.
	s.publish()
	return order, nil
}

func (s *Service) publish() {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish("cart_items")
	s.notifier.Publish("orders")
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
