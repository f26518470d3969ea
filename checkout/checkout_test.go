package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
	"github.com/ki-assist/storefront-api/store"
)

type fakeProductRepo struct {
	products map[string]models.Product
}

func (f *fakeProductRepo) List(ctx context.Context, _ repository.ProductFilter) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error  { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, id string, u map[string]interface{}) error {
	return nil
}
func (f *fakeProductRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeCartRepo struct {
	items    map[string]models.CartItem
	nextID   int
	products *fakeProductRepo
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			item.Product = f.products.products[item.ProductID]
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) Get(ctx context.Context, id string) (models.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return models.CartItem{}, repository.ErrNotFound
	}
	return item, nil
}

func (f *fakeCartRepo) Insert(ctx context.Context, item *models.CartItem) error {
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	f.items[item.ID] = *item
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	item.Quantity = quantity
	f.items[id] = item
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

// fakeOrderRepo mimics the transactional Place: stock check, order write
// and cart clear either all happen or none do.
type fakeOrderRepo struct {
	placed   []*models.Order
	products *fakeProductRepo
	carts    *fakeCartRepo
	failWith error
}

func (f *fakeOrderRepo) Place(ctx context.Context, order *models.Order) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, item := range order.Items {
		p := f.products.products[item.ProductID]
		if p.Stock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		p := f.products.products[item.ProductID]
		p.Stock -= item.Quantity
		f.products.products[item.ProductID] = p
	}
	f.placed = append(f.placed, order)
	return f.carts.DeleteByUser(ctx, order.UserID)
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) GetForUser(ctx context.Context, id, userID string) (models.Order, error) {
	return models.Order{}, repository.ErrNotFound
}
func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) { return nil, nil }
func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, s models.OrderStatus) error {
	return nil
}
func (f *fakeOrderRepo) UpdatePaymentStatus(ctx context.Context, id string, s models.PaymentStatus) error {
	return nil
}
func (f *fakeOrderRepo) Delete(ctx context.Context, id string) error { return nil }

type recordingNotifier struct {
	published []string
}

func (n *recordingNotifier) Publish(table string) {
	n.published = append(n.published, table)
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type testDeps struct {
	cartStore *store.CartStore
	orders    *fakeOrderRepo
	carts     *fakeCartRepo
	notifier  *recordingNotifier
}

func newTestService() (*Service, testDeps) {
	products := &fakeProductRepo{products: map[string]models.Product{
		"prod-a": {ID: "prod-a", Name: "Discord Bot Setup", Price: price("29.99"), Stock: 10},
		"prod-b": {ID: "prod-b", Name: "AI Agent Hosting", Price: price("49.50"), Stock: 1},
	}}
	carts := &fakeCartRepo{items: make(map[string]models.CartItem), products: products}
	notifier := &recordingNotifier{}
	cartStore := store.NewCartStore(carts, products, notifier)
	orders := &fakeOrderRepo{products: products, carts: carts}
	svc := NewService(cartStore, orders, notifier)
	return svc, testDeps{cartStore: cartStore, orders: orders, carts: carts, notifier: notifier}
}

var testAddress = models.ShippingAddress{
	Name:       "Max Mustermann",
	Street:     "Musterstr. 1",
	City:       "Berlin",
	PostalCode: "10115",
	Country:    "Deutschland",
}

func TestPlaceOrderRequiresIdentity(t *testing.T) {
	svc, deps := newTestService()

	_, err := svc.PlaceOrder(context.Background(), "", testAddress, "credit_card")

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, deps.orders.placed)
}

func TestPlaceOrderRefusesEmptyCart(t *testing.T) {
	svc, deps := newTestService()

	_, err := svc.PlaceOrder(context.Background(), "user-1", testAddress, "credit_card")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, deps.orders.placed)
}

func TestPlaceOrderSnapshotsTotalsAndClearsCart(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	_, err := deps.cartStore.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, "user-1", testAddress, "paypal")
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(price("59.98")), "got total %s", order.Total)
	require.Len(t, order.Items, 1, "one order item per distinct cart line")
	assert.Equal(t, "prod-a", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(price("29.99")), "unit price snapshot")
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "paypal", order.PaymentMethod)
	assert.Equal(t, testAddress, order.ShippingAddress)
	assert.NotEmpty(t, order.OrderRef)

	assert.Empty(t, deps.carts.items, "cart must be empty after a successful order")
	require.Len(t, deps.orders.placed, 1)
}

func TestPlaceOrderMultipleLines(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	_, err := deps.cartStore.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)
	_, err = deps.cartStore.Add(ctx, "user-1", "prod-b", 1)
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, "user-1", testAddress, "credit_card")
	require.NoError(t, err)

	assert.Len(t, order.Items, 2)
	assert.True(t, order.Total.Equal(price("109.48")), "got total %s", order.Total)
}

func TestPlaceOrderInsufficientStockLeavesCartIntact(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	// prod-b has stock 1; ask for 3 via programmatic quantity update.
	cart, err := deps.cartStore.Add(ctx, "user-1", "prod-b", 1)
	require.NoError(t, err)
	_, err = deps.cartStore.UpdateQuantity(ctx, "user-1", cart.Items[0].ID, 3)
	require.NoError(t, err, "the cart itself does not enforce the stock ceiling")

	_, err = svc.PlaceOrder(ctx, "user-1", testAddress, "credit_card")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, deps.orders.placed)
	assert.Len(t, deps.carts.items, 1, "failed checkout must leave the cart intact")
}

func TestPlaceOrderRepositoryFailureLeavesCartIntact(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	_, err := deps.cartStore.Add(ctx, "user-1", "prod-a", 1)
	require.NoError(t, err)
	deps.orders.failWith = errors.New("connection reset")

	_, err = svc.PlaceOrder(ctx, "user-1", testAddress, "credit_card")

	require.Error(t, err)
	assert.Len(t, deps.carts.items, 1)
}

func TestPlaceOrderPublishesChangeEvents(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	_, err := deps.cartStore.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)
	deps.notifier.published = nil

	_, err = svc.PlaceOrder(ctx, "user-1", testAddress, "credit_card")
	require.NoError(t, err)

	// Place empties the cart behind the store's back, so other tabs only
	// learn about it through these events.
	assert.Contains(t, deps.notifier.published, "cart_items")
	assert.Contains(t, deps.notifier.published, "orders")
}

func TestFailedPlaceOrderPublishesNothing(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	_, err := deps.cartStore.Add(ctx, "user-1", "prod-a", 1)
	require.NoError(t, err)
	deps.orders.failWith = errors.New("connection reset")
	deps.notifier.published = nil

	_, err = svc.PlaceOrder(ctx, "user-1", testAddress, "credit_card")

	require.Error(t, err)
	assert.Empty(t, deps.notifier.published)
}
