package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the fulfillment status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a placed cart checkout.
type Order struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	Status    OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	User  *User       `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a line item within an order. Name and UnitPrice are
// copied from the menu item at checkout time so later catalog edits do
// not rewrite order history.
type OrderItem struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID    uuid.UUID       `json:"order_id" gorm:"type:char(36);not null;index"`
	MenuItemID uuid.UUID       `json:"menu_item_id" gorm:"type:char(36);not null;index"`
	Name       string          `json:"name" gorm:"size:255;not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

// BeforeCreate sets UUID before creating the record.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
