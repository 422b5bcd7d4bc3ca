package returnControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/filestore"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/inventory"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const replacementLeadTime = 72 * time.Hour

// -------- Request Structs --------

type CreateRequestInput struct {
	UserID   uint   `form:"user_id" binding:"required"`
	OrderID  uint   `form:"order_id" binding:"required"`
	BookID   uint   `form:"book_id" binding:"required"`
	Quantity int    `form:"quantity" binding:"required"`
	Type     string `form:"type" binding:"required,oneof=RETURN REPLACEMENT"`
	Reason   string `form:"reason"`
}

type EditRequestInput struct {
	CustomerName    *string    `form:"customer_name"`
	CustomerAddress *string    `form:"customer_address"`
	CustomerPhone   *string    `form:"customer_phone"`
	Reason          *string    `form:"reason"`
	DeliveryDate    *time.Time `form:"delivery_date"`
}

// -------- Helpers --------

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func getRequest(db *gorm.DB, id uint) (*models.ReturnReplacement, error) {
	var rr models.ReturnReplacement
	if err := db.Preload("ImageURLs").First(&rr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("return/replacement request", id)
		}
		return nil, err
	}
	return &rr, nil
}

func getOrderWithItems(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, err
	}
	return &order, nil
}

func imageURLs(rr *models.ReturnReplacement) []string {
	urls := make([]string, 0, len(rr.ImageURLs))
	for _, img := range rr.ImageURLs {
		urls = append(urls, img.URL)
	}
	return urls
}

// -------- Core Logic --------

// CreateRequest validates and stores a new return/replacement request. The
// parent order must be delivered, the book must appear in it, the quantity
// must fit the ordered quantity, and no other active request may exist for
// the same (order, book) pair.
func CreateRequest(db *gorm.DB, input CreateRequestInput, urls []string) (*models.ReturnReplacement, error) {
	order, err := getOrderWithItems(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus != models.OrderStatusDelivered {
		return nil, apperrors.InvalidState("returns are only accepted for delivered orders")
	}

	item := order.FindItem(input.BookID)
	if item == nil {
		return nil, apperrors.Validation("book %d is not part of order %d", input.BookID, input.OrderID)
	}
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be greater than zero")
	}
	if input.Quantity > item.Quantity {
		return nil, apperrors.Validation("quantity cannot exceed ordered quantity (%d)", item.Quantity)
	}

	var active int64
	if err := db.Model(&models.ReturnReplacement{}).
		Where("order_id = ? AND book_id = ? AND status IN ?",
			input.OrderID, input.BookID,
			[]models.ReturnStatus{models.ReturnStatusPending, models.ReturnStatusApproved}).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, &apperrors.DuplicateRequestError{OrderID: input.OrderID, BookID: input.BookID}
	}

	now := time.Now()
	delivery := now.Add(replacementLeadTime)
	rr := models.ReturnReplacement{
		UserID:          input.UserID,
		OrderID:         input.OrderID,
		BookID:          input.BookID,
		BookTitle:       item.BookName,
		BookAuthor:      item.AuthorName,
		Quantity:        input.Quantity,
		CustomerName:    order.UserName,
		CustomerAddress: order.Address,
		CustomerPhone:   order.PhoneNumber,
		Type:            input.Type,
		Reason:          input.Reason,
		Status:          models.ReturnStatusPending,
		RequestedDate:   now,
		DeliveryDate:    &delivery,
	}
	for _, url := range urls {
		rr.ImageURLs = append(rr.ImageURLs, models.ReturnImage{URL: url})
	}

	if err := db.Create(&rr).Error; err != nil {
		return nil, err
	}
	return &rr, nil
}

// applyApproval mutates the order item, the order total and the book stock
// for a request transitioning to APPROVED. Runs inside tx; any failure
// (including insufficient replacement stock) rolls everything back.
func applyApproval(tx *gorm.DB, rr *models.ReturnReplacement) error {
	order, err := getOrderWithItems(tx, rr.OrderID)
	if err != nil {
		return err
	}
	item := order.FindItem(rr.BookID)
	if item == nil {
		return apperrors.NotFound("order item", rr.BookID)
	}

	updatedQty := item.Quantity - rr.Quantity
	if updatedQty < 0 {
		updatedQty = 0
	}
	item.Quantity = updatedQty
	item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(updatedQty)))
	if err := tx.Save(item).Error; err != nil {
		return err
	}

	order.RecalculateTotal()
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"total":      order.Total,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return err
	}

	switch rr.Type {
	case models.ReturnTypeReturn:
		return inventory.Release(tx, rr.BookID, rr.Quantity)
	case models.ReturnTypeReplacement:
		// The replacement unit ships from inventory.
		if _, err := inventory.Reserve(tx, rr.BookID, rr.Quantity); err != nil {
			return err
		}
		delivery := time.Now().Add(replacementLeadTime)
		return tx.Model(&models.ReturnReplacement{}).
			Where("id = ?", rr.ID).
			Update("delivery_date", delivery).Error
	}
	return nil
}

// returnTransitions mirrors the request state machine. REFUNDED is reached
// only through RefundRequest.
var returnTransitions = map[models.ReturnStatus][]models.ReturnStatus{
	models.ReturnStatusPending:  {models.ReturnStatusApproved, models.ReturnStatusRejected},
	models.ReturnStatusApproved: {models.ReturnStatusReplaced},
}

func returnTransitionAllowed(from, to models.ReturnStatus) bool {
	for _, s := range returnTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func parseReturnStatus(s string) (models.ReturnStatus, error) {
	switch status := models.ReturnStatus(strings.ToUpper(s)); status {
	case models.ReturnStatusPending, models.ReturnStatusApproved, models.ReturnStatusRejected,
		models.ReturnStatusRefunded, models.ReturnStatusReplaced:
		return status, nil
	default:
		return "", apperrors.Validation("invalid return status: %s", s)
	}
}

// UpdateStatus drives the admin transitions. The status change is a
// compare-and-set on the prior status and shares a transaction with the
// approval side effects, so a concurrent approval cannot double-restock and
// re-sending the current status changes nothing.
func UpdateStatus(db *gorm.DB, id uint, status string) (*models.ReturnReplacement, error) {
	newStatus, err := parseReturnStatus(status)
	if err != nil {
		return nil, err
	}

	rr, err := getRequest(db, id)
	if err != nil {
		return nil, err
	}
	if rr.Status == newStatus {
		return rr, nil
	}
	if newStatus == models.ReturnStatusRefunded {
		return nil, apperrors.InvalidState("refunds go through the refund endpoint")
	}
	if !returnTransitionAllowed(rr.Status, newStatus) {
		return nil, apperrors.InvalidState("request %d cannot go from %s to %s", id, rr.Status, newStatus)
	}

	prior := rr.Status
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ReturnReplacement{}).
			Where("id = ? AND status = ?", id, prior).
			Updates(map[string]interface{}{
				"status":         newStatus,
				"processed_date": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("request %d was updated concurrently; re-read and retry", id)
		}
		if newStatus == models.ReturnStatusApproved {
			return applyApproval(tx, rr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return getRequest(db, id)
}

// RefundRequest executes the gateway refund for an approved request. The
// refund amount is requested quantity times the item's original unit price.
// Gateway failure leaves the request APPROVED so the refund can be retried.
func RefundRequest(db *gorm.DB, gw payment.Gateway, returnID uint) (*models.ReturnReplacement, error) {
	rr, err := getRequest(db, returnID)
	if err != nil {
		return nil, err
	}
	if rr.Status == models.ReturnStatusRefunded {
		return nil, apperrors.InvalidState("request %d has already been refunded", returnID)
	}
	if rr.Status != models.ReturnStatusApproved {
		return nil, apperrors.InvalidState("request must be approved before refunding")
	}

	var record models.PaymentRecord
	if err := db.First(&record, "order_id = ?", rr.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment record", rr.OrderID)
		}
		return nil, err
	}

	order, err := getOrderWithItems(db, rr.OrderID)
	if err != nil {
		return nil, err
	}
	item := order.FindItem(rr.BookID)
	if item == nil {
		return nil, apperrors.NotFound("order item", rr.BookID)
	}

	amount := item.UnitPrice.Mul(decimal.NewFromInt(int64(rr.Quantity)))
	if _, err := gw.Refund(record.RemotePaymentID, amount); err != nil {
		return nil, err
	}

	res := db.Model(&models.ReturnReplacement{}).
		Where("id = ? AND status = ?", returnID, models.ReturnStatusApproved).
		Updates(map[string]interface{}{
			"status":          models.ReturnStatusRefunded,
			"refunded_amount": amount,
			"processed_date":  time.Now(),
			"payment_id":      record.RemotePaymentID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.InvalidState("request %d was updated concurrently; re-read and retry", returnID)
	}
	return getRequest(db, returnID)
}

// DeleteRequest removes a request and its evidence images. Only PENDING
// requests can be deleted; processed requests are immutable history.
func DeleteRequest(db *gorm.DB, store *filestore.Store, returnID uint) error {
	rr, err := getRequest(db, returnID)
	if err != nil {
		return err
	}
	if rr.Status != models.ReturnStatusPending {
		return apperrors.InvalidState("only pending requests can be deleted")
	}

	store.Delete(imageURLs(rr))
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("return_id = ?", returnID).Delete(&models.ReturnImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ReturnReplacement{}, "id = ?", returnID).Error
	})
}

// -------- Handlers --------

func CreateRequestHandler(db *gorm.DB, store *filestore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateRequestInput
		if err := c.ShouldBind(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid return request: %v", err))
			return
		}

		var urls []string
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files := form.File["images"]
			if len(files) > 0 {
				saved, err := store.SaveReturnImages(files, input.UserID, input.OrderID, input.BookID)
				if err != nil {
					apperrors.Respond(c, err)
					return
				}
				urls = saved
			}
		}

		rr, err := CreateRequest(db, input, urls)
		if err != nil {
			store.Delete(urls)
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rr)
	}
}

func GetUserRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		var requests []models.ReturnReplacement
		if err := db.Preload("ImageURLs").
			Where("user_id = ?", userID).
			Order("requested_date DESC").
			Find(&requests).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func GetAllRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requests []models.ReturnReplacement
		if err := db.Preload("ImageURLs").
			Order("requested_date DESC").
			Find(&requests).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func GetRequestsByStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := parseReturnStatus(c.Param("status"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		var requests []models.ReturnReplacement
		if err := db.Preload("ImageURLs").
			Where("status = ?", status).
			Order("requested_date DESC").
			Find(&requests).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

// EditRequestHandler updates editable fields and the image set of a PENDING
// request.
func EditRequestHandler(db *gorm.DB, store *filestore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		returnID, err := parseID(c, "returnID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		rr, err := getRequest(db, returnID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if rr.Status != models.ReturnStatusPending {
			apperrors.Respond(c, apperrors.InvalidState("only pending requests can be edited"))
			return
		}

		var input EditRequestInput
		if err := c.ShouldBind(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid edit payload: %v", err))
			return
		}

		if input.CustomerName != nil {
			rr.CustomerName = *input.CustomerName
		}
		if input.CustomerAddress != nil {
			rr.CustomerAddress = *input.CustomerAddress
		}
		if input.CustomerPhone != nil {
			rr.CustomerPhone = *input.CustomerPhone
		}
		if input.Reason != nil {
			rr.Reason = *input.Reason
		}
		if input.DeliveryDate != nil {
			rr.DeliveryDate = input.DeliveryDate
		}

		if form, err := c.MultipartForm(); err == nil && form != nil {
			files := form.File["images"]
			if len(files) > 0 {
				saved, err := store.SaveReturnImages(files, rr.UserID, rr.OrderID, rr.BookID)
				if err != nil {
					apperrors.Respond(c, err)
					return
				}
				for _, url := range saved {
					rr.ImageURLs = append(rr.ImageURLs, models.ReturnImage{ReturnID: rr.ID, URL: url})
				}
			}
		}

		if err := db.Save(rr).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rr)
	}
}

func DeleteRequestHandler(db *gorm.DB, store *filestore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		returnID, err := parseID(c, "returnID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := DeleteRequest(db, store, returnID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Return/replacement request deleted"})
	}
}

// UpdateStatusHandler is the admin approve/reject/replace transition,
// status passed as a query parameter.
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		status := c.Query("status")
		if status == "" {
			apperrors.Respond(c, apperrors.Validation("status query parameter is required"))
			return
		}
		rr, err := UpdateStatus(db, id, status)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rr)
	}
}

func RefundRequestHandler(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		returnID, err := parseID(c, "returnID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		rr, err := RefundRequest(db, gw, returnID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rr)
	}
}
