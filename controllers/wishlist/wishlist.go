package wishlistControllers

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

type AddWishlistInput struct {
	BookID uint `json:"book_id" binding:"required"`
}

// POST /user/wishlist
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddWishlistInput
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

		var existing models.Wishlist
		err := db.Where("user_id = ? AND book_id = ?", userID, input.BookID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, existing)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, err)
			return
		}

		entry := models.Wishlist{UserID: userID, BookID: input.BookID, AddedAt: time.Now()}
		if err := db.Create(&entry).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// GET /user/wishlist
func GetUserWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var items []models.Wishlist
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

// DELETE /user/wishlist/:bookID
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		bookID := c.Param("bookID")

		res := db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&models.Wishlist{})
		if res.Error != nil {
			apperrors.Respond(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("wishlist item", 0))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist item removed"})
	}
}
