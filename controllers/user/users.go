package userControllers

import (
	"net/http"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name            *string `json:"name"`
	ImageURL        *string `json:"image_url"`
	Address         *string `json:"address"`
	FavouriteBook   *string `json:"favourite_book"`
	FavouriteAuthor *string `json:"favourite_author"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user models.User
		if err := db.Preload("Orders.Items").First(&user, "id = ?", userID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("user", userID))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("user", userID))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid user payload: %v", err))
			return
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.ImageURL != nil {
			user.ImageURL = *input.ImageURL
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.FavouriteBook != nil {
			user.FavouriteBook = *input.FavouriteBook
		}
		if input.FavouriteAuthor != nil {
			user.FavouriteAuthor = *input.FavouriteAuthor
		}

		if err := db.Save(&user).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "name", "role", "image_url", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
