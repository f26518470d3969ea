package repository

import (
	"context"
	"errors"

	"github.com/ki-assist/storefront-api/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository covers catalog reads and the admin-side writes.
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Featured *bool
	Search   string
	MinPrice string
	MaxPrice string
	SortBy   string
	Order    string
}

// CartRepository owns the cart_items collection. ListByUser returns lines
// with the product preloaded so callers can compute live totals.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Get(ctx context.Context, id string) (models.CartItem, error)
	Insert(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// OrderRepository owns orders and order_items. Place must write the order,
// its items, the stock decrements and the cart clear in one transaction.
type OrderRepository interface {
	Place(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetForUser(ctx context.Context, id, userID string) (models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

// UserRepository upserts the identity rows mirrored from the auth provider.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
}
