package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null;default:5" json:"quantity"` // available stock, never negative
	AuthorID    *uint           `json:"author_id"`
	Author      *Author         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reviews     []Review        `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Author struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `json:"image_url"`
	Gender      string `json:"gender"`
	Books       []Book `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
}

// Review is a per-book review left from a delivered order item.
type Review struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	BookID  uint     `gorm:"index;not null" json:"book_id"`
	Comment string   `gorm:"type:text" json:"comment"`
	Rating  *float32 `json:"rating"`
}

// AverageRating returns the mean of all ratings, 0 when unrated.
func (b *Book) AverageRating() float32 {
	var sum float32
	var n int
	for _, r := range b.Reviews {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}
