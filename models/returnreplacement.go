package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "PENDING"
	ReturnStatusApproved ReturnStatus = "APPROVED"
	ReturnStatusRejected ReturnStatus = "REJECTED"
	ReturnStatusRefunded ReturnStatus = "REFUNDED"
	ReturnStatusReplaced ReturnStatus = "REPLACED"
)

// Terminal reports whether the request can no longer change.
func (s ReturnStatus) Terminal() bool {
	return s == ReturnStatusRejected || s == ReturnStatusRefunded || s == ReturnStatusReplaced
}

const (
	ReturnTypeReturn      = "RETURN"
	ReturnTypeReplacement = "REPLACEMENT"
)

// ReturnReplacement references its order and book by id only; the order may
// change or disappear independently, so every operation re-fetches it.
type ReturnReplacement struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"index;not null" json:"user_id"`
	OrderID         uint             `gorm:"index;not null" json:"order_id"`
	BookID          uint             `gorm:"not null" json:"book_id"`
	BookTitle       string           `gorm:"size:200" json:"book_title"`
	BookAuthor      string           `gorm:"size:150" json:"book_author"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	CustomerName    string           `gorm:"size:150" json:"customer_name"`
	CustomerAddress string           `gorm:"size:255" json:"customer_address"`
	CustomerPhone   string           `gorm:"size:15" json:"customer_phone"`
	PaymentID       string           `json:"payment_id,omitempty"`
	RefundedAmount  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refunded_amount,omitempty"`
	Type            string           `gorm:"size:20;not null" json:"type"` // RETURN or REPLACEMENT
	Reason          string           `gorm:"type:text" json:"reason"`
	ImageURLs       []ReturnImage    `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE" json:"image_urls,omitempty"`
	Status          ReturnStatus     `gorm:"type:varchar(20);not null" json:"status"`
	RequestedDate   time.Time        `json:"requested_date"`
	ProcessedDate   *time.Time       `json:"processed_date,omitempty"`
	DeliveryDate    *time.Time       `json:"delivery_date,omitempty"`
}

type ReturnImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReturnID uint   `gorm:"index;not null" json:"return_id"`
	URL      string `gorm:"not null" json:"url"`
}
