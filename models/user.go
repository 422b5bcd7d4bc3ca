package models

import "time"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `json:"name"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	Role            string     `gorm:"default:'ROLE_USER'" json:"role"`
	ResetToken      string     `json:"-"`
	TokenExpiry     *time.Time `json:"-"`
	ImageURL        string     `json:"image_url"`
	Address         string     `json:"address"`
	FavouriteBook   string     `json:"favourite_book"`
	FavouriteAuthor string     `json:"favourite_author"`
	Orders          []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
