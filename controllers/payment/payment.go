package paymentControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	orderControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/order"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/events"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type createOrderRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type paymentData struct {
	RemoteOrderID   string `json:"razorpay_order_id" binding:"required"`
	RemotePaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature       string `json:"razorpay_signature" binding:"required"`
}

type verifiedPlaceOrderRequest struct {
	Order       orderControllers.PlaceOrderRequest `json:"order" binding:"required"`
	PaymentData paymentData                        `json:"payment_data" binding:"required"`
}

// GetKeyHandler exposes the public key id for the checkout widget.
func GetKeyHandler(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": gw.KeyID()})
	}
}

// CreateGatewayOrderHandler registers a payment intent with the gateway.
func CreateGatewayOrderHandler(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount.LessThanOrEqual(decimal.Zero) {
			apperrors.Respond(c, apperrors.Validation("amount must be a positive number"))
			return
		}
		gatewayOrder, err := gw.CreateOrder(req.Amount)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gatewayOrder)
	}
}

// VerifyPaymentHandler checks the gateway signature. Verification fails
// closed: any error means not verified.
func VerifyPaymentHandler(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data paymentData
		if err := c.ShouldBindJSON(&data); err != nil {
			apperrors.Respond(c, apperrors.Validation("payment identifiers are required"))
			return
		}
		ok := gw.VerifySignature(data.RemoteOrderID, data.RemotePaymentID, data.Signature)
		c.JSON(http.StatusOK, gin.H{"success": ok})
	}
}

// PlaceVerifiedOrderHandler is the electronic-payment placement: verify the
// signature, then run the normal placement and persist the payment record in
// the same transaction. A failed verification creates no order and touches
// no stock.
func PlaceVerifiedOrderHandler(db *gorm.DB, gw payment.Gateway, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifiedPlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid payment order payload: %v", err))
			return
		}

		if !gw.VerifySignature(req.PaymentData.RemoteOrderID, req.PaymentData.RemotePaymentID, req.PaymentData.Signature) {
			apperrors.Respond(c, apperrors.Gateway("verify",
				errors.New("payment signature verification failed")))
			return
		}

		req.Order.OrderMode = models.OrderModeUPI
		var order *models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			order, txErr = orderControllers.CreateOrder(tx, req.Order)
			if txErr != nil {
				return txErr
			}
			return tx.Create(&models.PaymentRecord{
				OrderID:         order.ID,
				RemoteOrderID:   req.PaymentData.RemoteOrderID,
				RemotePaymentID: req.PaymentData.RemotePaymentID,
				Signature:       req.PaymentData.Signature,
			}).Error
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		pub.OrderPlaced(c.Request.Context(), order)
		c.JSON(http.StatusOK, order)
	}
}

// GetPaymentInfoHandler returns the payment record for an order.
func GetPaymentInfoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("orderID")
		orderID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || orderID == 0 {
			apperrors.Respond(c, apperrors.Validation("orderID must be a positive integer"))
			return
		}
		var record models.PaymentRecord
		if err := db.First(&record, "order_id = ?", uint(orderID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("payment record", uint(orderID)))
				return
			}
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
