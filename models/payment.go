package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord links an electronically paid order to its verified gateway
// identifiers. Created only after signature verification succeeds; deleted
// together with the order on full cancellation.
type PaymentRecord struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	OrderID         uint             `gorm:"uniqueIndex;not null" json:"order_id"`
	RemoteOrderID   string           `gorm:"not null" json:"remote_order_id"`
	RemotePaymentID string           `gorm:"not null" json:"remote_payment_id"`
	Signature       string           `gorm:"not null" json:"signature"`
	RefundedAmount  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refunded_amount,omitempty"`
	RefundedAt      *time.Time       `json:"refunded_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
