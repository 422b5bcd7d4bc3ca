package models

import "time"

// Cart is one saved book per row, one row per (user, book).
type Cart struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"index;not null;uniqueIndex:idx_cart_user_book" json:"user_id"`
	BookID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"book_id"`
	Book    Book      `gorm:"foreignKey:BookID" json:"book"`
	AddedAt time.Time `json:"added_at"`
}

type Wishlist struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"index;not null;uniqueIndex:idx_wishlist_user_book" json:"user_id"`
	BookID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_book" json:"book_id"`
	Book    Book      `gorm:"foreignKey:BookID" json:"book"`
	AddedAt time.Time `json:"added_at"`
}
