package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting fulfillment
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusCompleted OrderStatus = "completed" // Customer received the item
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ShippingAddress is embedded into Order; it is a snapshot of the form the
// buyer filled in at checkout, not a reference to the user profile.
type ShippingAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderRef        string          `gorm:"uniqueIndex" json:"order_ref"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"` // e.g. "credit_card", "paypal"
	Total           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem snapshots the unit price at the time the order was placed; it
// must never be re-derived from the live product price.
type OrderItem struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string          `gorm:"index;not null" json:"order_id"`
	ProductID string          `gorm:"index;not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}

func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusCompleted):
		return OrderStatusCompleted, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentStatus(status string) (PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(PaymentStatusPending):
		return PaymentStatusPending, nil
	case string(PaymentStatusPaid):
		return PaymentStatusPaid, nil
	case string(PaymentStatusFailed):
		return PaymentStatusFailed, nil
	case string(PaymentStatusRefunded):
		return PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}
