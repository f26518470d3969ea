package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ki-assist/storefront-api/models"
)

// Gorm bundles the Postgres-backed implementations of all repositories.
type Gorm struct {
	Products GormProductRepository
	Carts    GormCartRepository
	Orders   GormOrderRepository
	Users    GormUserRepository
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{
		Products: GormProductRepository{db: db},
		Carts:    GormCartRepository{db: db},
		Orders:   GormOrderRepository{db: db},
		Users:    GormUserRepository{db: db},
	}
}

// ---------------- Products ----------------

type GormProductRepository struct {
	db *gorm.DB
}

func (r GormProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if f.Search != "" {
		likePattern := "%" + f.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", likePattern, likePattern)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		query = query.Where("featured = ?", *f.Featured)
	}
	if f.MinPrice != "" {
		if mp, err := strconv.ParseFloat(f.MinPrice, 64); err == nil {
			query = query.Where("price >= ?", mp)
		}
	}
	if f.MaxPrice != "" {
		if mp, err := strconv.ParseFloat(f.MaxPrice, 64); err == nil {
			query = query.Where("price <= ?", mp)
		}
	}

	sortBy := f.SortBy
	switch sortBy {
	case "price", "name", "created_at":
	default:
		sortBy = "created_at"
	}
	order := f.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	var products []models.Product
	if err := query.Order(sortBy + " " + order).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r GormProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}

func (r GormProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r GormProductRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r GormProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- Cart items ----------------

type GormCartRepository struct {
	db *gorm.DB
}

func (r GormCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r GormCartRepository) Get(ctx context.Context, id string) (models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, ErrNotFound
		}
		return models.CartItem{}, err
	}
	return item, nil
}

func (r GormCartRepository) Insert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r GormCartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	result := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r GormCartRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r GormCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// ---------------- Orders ----------------

type GormOrderRepository struct {
	db *gorm.DB
}

// Place writes the order and its items, decrements stock and clears the
// buyer's cart in a single transaction, so a failed item insert can never
// leave an orphaned pending order behind.
func (r GormOrderRepository) Place(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return ErrInsufficientStock
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", product.Stock-item.Quantity).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
}

func (r GormOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r GormOrderRepository) GetForUser(ctx context.Context, id, userID string) (models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (r GormOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r GormOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r GormOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r GormOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
}

// ---------------- Users ----------------

type GormUserRepository struct {
	db *gorm.DB
}

func (r GormUserRepository) Upsert(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "picture", "updated_at"}),
	}).Create(user).Error
}

func (r GormUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
