// Package store holds the cart store: the single source of truth for what
// is in a user's cart. Every mutation concludes with a full reload rather
// than a local patch, and publishes a change event for connected clients.
package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
)

var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrProductNotFound = errors.New("product does not exist")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Notifier receives a table name after every successful mutation of that
// table. The realtime hub implements it; tests pass nil.
type Notifier interface {
	Publish(table string)
}

// Cart is the loaded view of a user's cart: lines joined with products.
type Cart struct {
	Items []models.CartItem `json:"items"`
}

// Total is recomputed from the lines on every call, never cached.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount is the sum of line quantities, not the number of lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

type CartStore struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	notifier Notifier
}

func NewCartStore(carts repository.CartRepository, products repository.ProductRepository, notifier Notifier) *CartStore {
	return &CartStore{carts: carts, products: products, notifier: notifier}
}

// Load fetches the user's cart lines. Without an identity it returns an
// empty cart, and a fetch failure degrades to an empty cart with only a
// log line; callers never see a hard error from a read.
func (s *CartStore) Load(ctx context.Context, userID string) Cart {
	if userID == "" {
		return Cart{}
	}
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return Cart{}
	}
	return Cart{Items: items}
}

// Add puts quantity units of a product into the cart. If a line for the
// product already exists the quantities are added together rather than
// creating a duplicate line.
func (s *CartStore) Add(ctx context.Context, userID, productID string, quantity int) (Cart, error) {
	if userID == "" {
		return Cart{}, ErrAuthRequired
	}
	if quantity < 1 {
		return Cart{}, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Cart{}, ErrProductNotFound
		}
		return Cart{}, err
	}

	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return Cart{}, err
	}

	for _, item := range items {
		if item.ProductID == product.ID {
			return s.UpdateQuantity(ctx, userID, item.ID, item.Quantity+quantity)
		}
	}

	newItem := models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
	}
	if err := s.carts.Insert(ctx, &newItem); err != nil {
		return Cart{}, err
	}
	s.publish()
	return s.Load(ctx, userID), nil
}

// UpdateQuantity sets a line's quantity. Anything at or below zero removes
// the line entirely. There is no upper bound here; the stock ceiling is
// enforced at checkout.
func (s *CartStore) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (Cart, error) {
	if userID == "" {
		return Cart{}, ErrAuthRequired
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, itemID)
	}

	if err := s.ownedItem(ctx, userID, itemID); err != nil {
		return Cart{}, err
	}
	if err := s.carts.UpdateQuantity(ctx, itemID, quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Cart{}, ErrItemNotFound
		}
		return Cart{}, err
	}
	s.publish()
	return s.Load(ctx, userID), nil
}

// Remove deletes one line from the cart.
func (s *CartStore) Remove(ctx context.Context, userID, itemID string) (Cart, error) {
	if userID == "" {
		return Cart{}, ErrAuthRequired
	}
	if err := s.ownedItem(ctx, userID, itemID); err != nil {
		return Cart{}, err
	}
	if err := s.carts.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Cart{}, ErrItemNotFound
		}
		return Cart{}, err
	}
	s.publish()
	return s.Load(ctx, userID), nil
}

// Clear deletes every line the user owns. Used after an order is placed.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.publish()
	return nil
}

// ownedItem rejects mutations of lines that belong to someone else.
func (s *CartStore) ownedItem(ctx context.Context, userID, itemID string) error {
	item, err := s.carts.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		return ErrItemNotFound
	}
	return nil
}

func (s *CartStore) publish() {
	if s.notifier != nil {
		s.notifier.Publish("cart_items")
	}
}
