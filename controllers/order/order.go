package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/events"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/inventory"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// deliveryLeadTime is added to the placement (or replacement approval) time.
const deliveryLeadTime = 72 * time.Hour

// -------- Request Structs --------

type OrderItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	UserID      uint               `json:"user_id" binding:"required"`
	UserName    string             `json:"user_name" binding:"required"`
	Address     string             `json:"address" binding:"required"`
	PhoneNumber string             `json:"phone_number" binding:"required"`
	OrderMode   string             `json:"order_mode" binding:"required,oneof=CASH UPI"`
	Items       []OrderItemRequest `json:"items" binding:"required,dive"`
}

type OrderUpdateRequest struct {
	UserName     *string    `json:"user_name"`
	Address      *string    `json:"address"`
	PhoneNumber  *string    `json:"phone_number"`
	DeliveryDate *time.Time `json:"delivery_date"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"order_status" binding:"required"`
}

type ReviewRequest struct {
	Review string   `json:"review"`
	Rating *float32 `json:"rating"`
}

// -------- Helpers --------

func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func parseOrderStatus(s string) (models.OrderStatus, error) {
	switch models.OrderStatus(s) {
	case models.OrderStatusPlaced, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return models.OrderStatus(s), nil
	default:
		return "", apperrors.Validation("invalid order status: %s", s)
	}
}

// -------- Core Logic --------

// CreateOrder runs the whole placement inside tx: stock reservation,
// price/name snapshots, total accumulation and cart clearing. Any error
// rolls the transaction back so no partial decrement survives.
func CreateOrder(tx *gorm.DB, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}

	order := models.Order{
		UserID:       req.UserID,
		UserName:     req.UserName,
		OrderMode:    req.OrderMode,
		OrderStatus:  models.OrderStatusPlaced,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		DeliveryDate: time.Now().Add(deliveryLeadTime),
	}

	total := decimal.Zero
	for _, item := range req.Items {
		book, err := inventory.Reserve(tx, item.BookID, item.Quantity)
		if err != nil {
			return nil, err
		}

		authorName := "Unknown"
		if book.Author != nil {
			authorName = book.Author.Name
		}
		subtotal := book.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))

		order.Items = append(order.Items, models.OrderItem{
			BookID:     book.ID,
			BookName:   book.Name,
			AuthorName: authorName,
			Quantity:   item.Quantity,
			UnitPrice:  book.Price,
			Subtotal:   subtotal,
		})
		total = total.Add(subtotal)
	}
	order.Total = total

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ?", req.UserID).Delete(&models.Cart{}).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceOrder wraps CreateOrder in its own transaction.
func PlaceOrder(db *gorm.DB, req PlaceOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = CreateOrder(tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func getOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, err
	}
	return &order, nil
}

// paymentRecord returns the order's payment record, or nil when the order
// has none (CASH orders).
func paymentRecord(db *gorm.DB, orderID uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := db.First(&record, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CancelOrder removes the order entirely. For electronically paid orders the
// full refund is attempted first; if the gateway call fails nothing local
// changes. On success stock is restored for every item and the order, its
// items and its payment record are deleted.
func CancelOrder(db *gorm.DB, gw payment.Gateway, orderID uint) error {
	order, err := getOrder(db, orderID)
	if err != nil {
		return err
	}
	if order.OrderStatus == models.OrderStatusDelivered {
		return apperrors.InvalidState("order %d has already been delivered and cannot be cancelled", orderID)
	}

	record, err := paymentRecord(db, orderID)
	if err != nil {
		return err
	}

	// Refund before any local mutation. A gateway failure aborts the whole
	// cancellation.
	if order.OrderMode == models.OrderModeUPI && record != nil {
		if _, err := gw.Refund(record.RemotePaymentID, order.Total); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := inventory.Release(tx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		if record != nil {
			if err := tx.Delete(&models.PaymentRecord{}, "order_id = ?", orderID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", orderID).Error
	})
}

// RemoveOrderItem drops one line item, refunding its subtotal first for
// electronically paid orders and restoring its stock. An order emptied by
// the removal is deleted outright together with its payment record.
func RemoveOrderItem(db *gorm.DB, gw payment.Gateway, orderID, bookID uint) error {
	order, err := getOrder(db, orderID)
	if err != nil {
		return err
	}
	if order.OrderStatus.Terminal() {
		return apperrors.InvalidState("order %d is %s; items can no longer be removed", orderID, order.OrderStatus)
	}

	item := order.FindItem(bookID)
	if item == nil {
		return apperrors.NotFound("order item", bookID)
	}

	record, err := paymentRecord(db, orderID)
	if err != nil {
		return err
	}
	if order.OrderMode == models.OrderModeUPI && record != nil {
		if _, err := gw.Refund(record.RemotePaymentID, item.Subtotal); err != nil {
			return err
		}
	}

	removedID := item.ID
	return db.Transaction(func(tx *gorm.DB) error {
		if err := inventory.Release(tx, item.BookID, item.Quantity); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderItem{}, "id = ?", removedID).Error; err != nil {
			return err
		}

		if len(order.Items) == 1 {
			// Last item gone: delete the whole order instead of keeping an
			// empty shell.
			if record != nil {
				if err := tx.Delete(&models.PaymentRecord{}, "order_id = ?", orderID).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&models.Order{}, "id = ?", orderID).Error
		}

		remaining := make([]models.OrderItem, 0, len(order.Items)-1)
		for _, it := range order.Items {
			if it.ID != removedID {
				remaining = append(remaining, it)
			}
		}
		order.Items = remaining
		order.RecalculateTotal()
		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"total":      order.Total,
				"updated_at": time.Now(),
			}).Error
	})
}

// allowedTransitions is the admin-driven order state machine. Cancellation
// through here only marks the status; the refunding cancel path is
// CancelOrder.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPlaced:  {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateOrderStatus applies an admin transition as a compare-and-set on the
// current status, so two concurrent updates cannot both succeed. Re-sending
// the current status is a no-op.
func UpdateOrderStatus(db *gorm.DB, orderID uint, status string) (*models.Order, error) {
	newStatus, err := parseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := getOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus == newStatus {
		return order, nil
	}
	if !transitionAllowed(order.OrderStatus, newStatus) {
		return nil, apperrors.InvalidState("order %d cannot go from %s to %s", orderID, order.OrderStatus, newStatus)
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, order.OrderStatus).
		Updates(map[string]interface{}{
			"order_status": newStatus,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.InvalidState("order %d was updated concurrently; re-read and retry", orderID)
	}
	order.OrderStatus = newStatus
	return order, nil
}

// -------- Handlers --------

func PlaceOrderHandler(db *gorm.DB, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid order payload: %v", err))
			return
		}
		order, err := PlaceOrder(db, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		pub.OrderPlaced(c.Request.Context(), order)
		c.JSON(http.StatusOK, order)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		order, err := getOrder(db, orderID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// EditOrderHandler updates contact/delivery fields. Delivered and cancelled
// orders are frozen.
func EditOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		var req OrderUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid update payload: %v", err))
			return
		}

		order, err := getOrder(db, orderID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if order.OrderStatus.Terminal() {
			apperrors.Respond(c, apperrors.InvalidState("order %d is %s and can no longer be edited", orderID, order.OrderStatus))
			return
		}

		if req.UserName != nil {
			order.UserName = *req.UserName
		}
		if req.Address != nil {
			order.Address = *req.Address
		}
		if req.PhoneNumber != nil {
			order.PhoneNumber = *req.PhoneNumber
		}
		if req.DeliveryDate != nil {
			order.DeliveryDate = *req.DeliveryDate
		}

		if err := db.Save(order).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func RemoveOrderHandler(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := CancelOrder(db, gw, orderID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled and stock restored"})
	}
}

func RemoveOrderItemHandler(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		bookID, err := parseID(c, "bookID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := RemoveOrderItem(db, gw, orderID, bookID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order item removed"})
	}
}

func UpdateOrderStatusHandler(db *gorm.DB, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("order_status is required"))
			return
		}
		order, err := UpdateOrderStatus(db, orderID, req.OrderStatus)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		pub.OrderStatusChanged(c.Request.Context(), order.ID, order.OrderStatus)
		c.JSON(http.StatusOK, order)
	}
}

// AddReviewHandler attaches a review/rating to a delivered order item and
// mirrors it onto the book.
func AddReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		bookID, err := parseID(c, "bookID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid review payload: %v", err))
			return
		}

		order, err := getOrder(db, orderID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if order.OrderStatus != models.OrderStatusDelivered {
			apperrors.Respond(c, apperrors.InvalidState("reviews are only allowed after delivery"))
			return
		}

		item := order.FindItem(bookID)
		if item == nil {
			apperrors.Respond(c, apperrors.NotFound("order item", bookID))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			item.Review = req.Review
			item.Rating = req.Rating
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			if req.Review != "" || req.Rating != nil {
				return tx.Create(&models.Review{
					BookID:  bookID,
					Comment: req.Review,
					Rating:  req.Rating,
				}).Error
			}
			return nil
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
