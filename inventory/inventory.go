// Package inventory is the single owner of per-book stock mutations. All
// decrements and increments go through Reserve/Release inside the caller's
// transaction; granularity is the single book row.
package inventory

import (
	"errors"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"gorm.io/gorm"
)

// Reserve atomically decrements the book's quantity by qty. The decrement is
// a conditional UPDATE (`quantity >= qty` in the predicate) so concurrent
// orders on the same book cannot produce a lost update or negative stock.
// Returns the book as read before the decrement for snapshotting.
func Reserve(tx *gorm.DB, bookID uint, qty int) (*models.Book, error) {
	if qty <= 0 {
		return nil, apperrors.Validation("quantity must be greater than zero")
	}

	var book models.Book
	if err := tx.Preload("Author").First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book", bookID)
		}
		return nil, err
	}

	res := tx.Model(&models.Book{}).
		Where("id = ? AND quantity >= ?", bookID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &apperrors.InsufficientStockError{
			BookName:  book.Name,
			Requested: qty,
			Available: book.Quantity,
		}
	}
	return &book, nil
}

// Release returns qty units to stock, used on cancellation and approved
// returns.
func Release(tx *gorm.DB, bookID uint, qty int) error {
	if qty <= 0 {
		return apperrors.Validation("quantity must be greater than zero")
	}
	res := tx.Model(&models.Book{}).
		Where("id = ?", bookID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("book", bookID)
	}
	return nil
}
