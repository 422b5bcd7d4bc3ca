package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Terminal reports whether no further status transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

const (
	OrderModeCash = "CASH"
	OrderModeUPI  = "UPI"
)

type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	UserName     string          `gorm:"not null" json:"user_name"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	OrderMode    string          `gorm:"not null" json:"order_mode"` // CASH or UPI
	OrderStatus  OrderStatus     `gorm:"type:varchar(20);not null" json:"order_status"`
	Address      string          `gorm:"size:500;not null" json:"address"`
	PhoneNumber  string          `gorm:"size:20;not null" json:"phone_number"`
	DeliveryDate time.Time       `gorm:"not null" json:"delivery_date"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderItem carries a point-in-time snapshot of the book; later changes to
// the live book never affect past orders.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"index;not null" json:"order_id"`
	BookID     uint            `gorm:"not null" json:"book_id"`
	BookName   string          `gorm:"not null" json:"book_name"`
	AuthorName string          `json:"author_name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Review     string          `gorm:"type:text" json:"review"`
	Rating     *float32        `json:"rating"`
}

// RecalculateTotal derives the order total from its live items.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.Total = total
}

// FindItem returns the line item for bookID, or nil.
func (o *Order) FindItem(bookID uint) *OrderItem {
	for i := range o.Items {
		if o.Items[i].BookID == bookID {
			return &o.Items[i]
		}
	}
	return nil
}
