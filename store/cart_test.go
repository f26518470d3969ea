package store

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
)

// In-memory fakes for the repositories.

type fakeCartRepo struct {
	items  map[string]models.CartItem
	nextID int
	repo   *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string]models.CartItem), repo: products}
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			item.Product = f.repo.products[item.ProductID]
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
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
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
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

type fakeProductRepo struct {
	products map[string]models.Product
}

func (f *fakeProductRepo) List(ctx context.Context, _ repository.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	return nil
}

type countingNotifier struct {
	published []string
}

func (n *countingNotifier) Publish(table string) {
	n.published = append(n.published, table)
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newTestStore() (*CartStore, *fakeCartRepo, *countingNotifier) {
	products := &fakeProductRepo{products: map[string]models.Product{
		"prod-a": {ID: "prod-a", Name: "Discord Bot Setup", Price: price("29.99"), Stock: 10},
		"prod-b": {ID: "prod-b", Name: "AI Agent Hosting", Price: price("49.50"), Stock: 5},
	}}
	carts := newFakeCartRepo(products)
	notifier := &countingNotifier{}
	return NewCartStore(carts, products, notifier), carts, notifier
}

func TestLoadWithoutIdentityReturnsEmptyCart(t *testing.T) {
	s, _, _ := newTestStore()

	cart := s.Load(context.Background(), "")

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.Total().IsZero())
}

func TestAddRequiresIdentity(t *testing.T) {
	s, carts, _ := newTestStore()

	_, err := s.Add(context.Background(), "", "prod-a", 1)

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, carts.items)
}

func TestAddUnknownProduct(t *testing.T) {
	s, _, _ := newTestStore()

	_, err := s.Add(context.Background(), "user-1", "nope", 1)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddCreatesLineAndRecomputesTotals(t *testing.T) {
	s, _, _ := newTestStore()

	cart, err := s.Add(context.Background(), "user-1", "prod-a", 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.ItemCount())
	assert.True(t, cart.Total().Equal(price("59.98")), "got total %s", cart.Total())
}

func TestAddExistingProductIsAdditive(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	_, err := s.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)

	cart, err := s.Add(ctx, "user-1", "prod-a", 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "adding an existing product must not create a second line")
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	cart, err := s.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = s.UpdateQuantity(ctx, "user-1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = s.Add(ctx, "user-1", "prod-b", 1)
	require.NoError(t, err)
	cart, err = s.UpdateQuantity(ctx, "user-1", cart.Items[0].ID, -3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantityRejectsForeignItems(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	cart, err := s.Add(ctx, "user-1", "prod-a", 1)
	require.NoError(t, err)

	_, err = s.UpdateQuantity(ctx, "user-2", cart.Items[0].ID, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMutationSequenceKeepsDerivedValuesFresh(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	cart, err := s.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)
	cart, err = s.Add(ctx, "user-1", "prod-b", 1)
	require.NoError(t, err)

	assert.Equal(t, 3, cart.ItemCount())
	assert.True(t, cart.Total().Equal(price("109.48")), "got total %s", cart.Total())

	var lineA string
	for _, item := range cart.Items {
		if item.ProductID == "prod-a" {
			lineA = item.ID
		}
	}
	cart, err = s.UpdateQuantity(ctx, "user-1", lineA, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, cart.ItemCount())
	assert.True(t, cart.Total().Equal(price("79.49")), "got total %s", cart.Total())

	cart, err = s.Remove(ctx, "user-1", lineA)
	require.NoError(t, err)

	assert.Equal(t, 1, cart.ItemCount())
	assert.True(t, cart.Total().Equal(price("49.50")), "got total %s", cart.Total())
}

func TestClearDeletesAllLinesForUser(t *testing.T) {
	s, carts, _ := newTestStore()
	ctx := context.Background()

	_, err := s.Add(ctx, "user-1", "prod-a", 2)
	require.NoError(t, err)
	_, err = s.Add(ctx, "user-2", "prod-b", 1)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "user-1"))

	assert.Empty(t, s.Load(ctx, "user-1").Items)
	assert.Len(t, carts.items, 1, "other users' carts must survive a clear")
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	s, _, notifier := newTestStore()
	ctx := context.Background()

	cart, err := s.Add(ctx, "user-1", "prod-a", 1)
	require.NoError(t, err)
	_, err = s.UpdateQuantity(ctx, "user-1", cart.Items[0].ID, 4)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "user-1"))

	require.Len(t, notifier.published, 3)
	for _, table := range notifier.published {
		assert.Equal(t, "cart_items", table)
	}
}
