package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResetInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// POST /auth/register
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid registration payload: %v", err))
			return
		}

		var existing models.User
		if err := db.First(&existing, "email = ?", input.Email).Error; err == nil {
			apperrors.Respond(c, apperrors.Validation("email is already registered"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		user := models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hash),
			Role:     models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		token, err := generateToken(&user)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("email and password are required"))
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", input.Email).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token, err := generateToken(&user)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// POST /auth/forgot-password
// Issues a reset token. The token is stored per user in the database, never
// in process memory, so any server instance can honor it.
func ForgotPasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("email is required"))
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", input.Email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Do not reveal whether the email exists.
				c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset token has been issued"})
				return
			}
			apperrors.Respond(c, err)
			return
		}

		expiry := time.Now().Add(time.Hour)
		user.ResetToken = uuid.NewString()
		user.TokenExpiry = &expiry
		if err := db.Save(&user).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset token has been issued"})
	}
}

// POST /auth/reset-password
func ResetPasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("token and password are required"))
			return
		}

		var user models.User
		if err := db.First(&user, "reset_token = ?", input.Token).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		if user.TokenExpiry == nil || user.TokenExpiry.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		user.Password = string(hash)
		user.ResetToken = ""
		user.TokenExpiry = nil
		if err := db.Save(&user).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
