package bookControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity"`
	AuthorID    *uint           `json:"author_id"`
}

type AuthorInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Gender      string `json:"gender"`
}

// GET /books
func GetBooks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var books []models.Book
		if err := db.Preload("Author").Preload("Reviews").
			Order("created_at DESC").
			Find(&books).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// GET /books/:bookID
func GetBookByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("bookID"), 10, 32)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("bookID must be a positive integer"))
			return
		}
		var book models.Book
		if err := db.Preload("Author").Preload("Reviews").
			First(&book, "id = ?", uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("book", uint(id)))
				return
			}
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"book":           book,
			"average_rating": book.AverageRating(),
		})
	}
}

// POST /admin/books
func CreateBook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid book payload: %v", err))
			return
		}
		if input.Price.IsNegative() {
			apperrors.Respond(c, apperrors.Validation("price cannot be negative"))
			return
		}
		if input.Quantity < 0 {
			apperrors.Respond(c, apperrors.Validation("quantity cannot be negative"))
			return
		}

		book := models.Book{
			Name:        input.Name,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			Price:       input.Price,
			Quantity:    input.Quantity,
			AuthorID:    input.AuthorID,
		}
		if err := db.Create(&book).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, book)
	}
}

// PUT /admin/books/:bookID
func UpdateBook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("bookID"), 10, 32)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("bookID must be a positive integer"))
			return
		}
		var book models.Book
		if err := db.First(&book, "id = ?", uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("book", uint(id)))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		var input BookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid book payload: %v", err))
			return
		}
		if input.Quantity < 0 {
			apperrors.Respond(c, apperrors.Validation("quantity cannot be negative"))
			return
		}

		book.Name = input.Name
		book.Description = input.Description
		book.ImageURL = input.ImageURL
		book.Price = input.Price
		book.Quantity = input.Quantity
		book.AuthorID = input.AuthorID
		if err := db.Save(&book).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// DELETE /admin/books/:bookID
func DeleteBook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("bookID")
		res := db.Delete(&models.Book{}, "id = ?", id)
		if res.Error != nil {
			apperrors.Respond(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("book", 0))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
	}
}

// GET /authors
func GetAuthors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var authors []models.Author
		if err := db.Preload("Books").Find(&authors).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, authors)
	}
}

// POST /admin/authors
func CreateAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AuthorInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid author payload: %v", err))
			return
		}
		author := models.Author{
			Name:        input.Name,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			Gender:      input.Gender,
		}
		if err := db.Create(&author).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, author)
	}
}
