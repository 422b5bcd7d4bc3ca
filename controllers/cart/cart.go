package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddCartItemInput struct {
	BookID uint `json:"book_id" binding:"required"`
}

// POST /user/cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("book_id is required"))
			return
		}

		var book models.Book
		if err := db.First(&book, "id = ?", input.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("book", input.BookID))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		// One row per (user, book); adding twice refreshes the timestamp.
		var entry models.Cart
		err := db.Where("user_id = ? AND book_id = ?", userID, input.BookID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.Cart{UserID: userID, BookID: input.BookID, AddedAt: time.Now()}
			if err := db.Create(&entry).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
			c.JSON(http.StatusCreated, entry)
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		entry.AddedAt = time.Now()
		if err := db.Save(&entry).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var items []models.Cart
		if err := db.Preload("Book.Author").
			Where("user_id = ?", userID).
			Order("added_at DESC").
			Find(&items).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// DELETE /user/cart/:bookID
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		bookID := c.Param("bookID")

		res := db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&models.Cart{})
		if res.Error != nil {
			apperrors.Respond(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("cart item", 0))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := db.Where("user_id = ?", userID).Delete(&models.Cart{}).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
