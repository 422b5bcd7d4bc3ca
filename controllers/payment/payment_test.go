package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeGateway accepts only the literal signature "valid".
type fakeGateway struct{}

func (fakeGateway) CreateOrder(amount decimal.Decimal) (*payment.Order, error) {
	return &payment.Order{ID: "order_" + uuid.NewString(), Amount: amount.Mul(decimal.NewFromInt(100)).IntPart(), Currency: "INR"}, nil
}

func (fakeGateway) VerifySignature(remoteOrderID, remotePaymentID, signature string) bool {
	return signature == "valid"
}

func (fakeGateway) Refund(paymentID string, amount decimal.Decimal) (*payment.Refund, error) {
	return &payment.Refund{ID: "rfnd_1", PaymentID: paymentID, Status: "processed"}, nil
}

func (fakeGateway) KeyID() string { return "rzp_test_key" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Author{}, &models.Book{}, &models.Cart{},
		&models.Order{}, &models.OrderItem{}, &models.PaymentRecord{},
	))
	return db
}

func placeVerifiedBody(t *testing.T, bookID uint, signature string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(gin.H{
		"order": gin.H{
			"user_id":      7,
			"user_name":    "Asha",
			"address":      "12 Library Lane",
			"phone_number": "9876543210",
			"order_mode":   "UPI",
			"items":        []gin.H{{"book_id": bookID, "quantity": 2}},
		},
		"payment_data": gin.H{
			"razorpay_order_id":   "order_remote",
			"razorpay_payment_id": "pay_remote",
			"razorpay_signature":  signature,
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func postPlaceOrder(t *testing.T, db *gorm.DB, bookID uint, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payment/place-order", PlaceVerifiedOrderHandler(db, fakeGateway{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/payment/place-order", placeVerifiedBody(t, bookID, signature))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaceVerifiedOrderCreatesOrderAndRecord(t *testing.T) {
	db := openTestDB(t)
	book := models.Book{Name: "Dune", Price: decimal.NewFromInt(499), Quantity: 10}
	require.NoError(t, db.Create(&book).Error)

	w := postPlaceOrder(t, db, book.ID, "valid")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order).Error)
	assert.Equal(t, models.OrderModeUPI, order.OrderMode)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(998)))

	var record models.PaymentRecord
	require.NoError(t, db.First(&record, "order_id = ?", order.ID).Error)
	assert.Equal(t, "pay_remote", record.RemotePaymentID)

	var stock models.Book
	require.NoError(t, db.First(&stock, "id = ?", book.ID).Error)
	assert.Equal(t, 8, stock.Quantity)
}

func TestPlaceVerifiedOrderBadSignatureCreatesNothing(t *testing.T) {
	db := openTestDB(t)
	book := models.Book{Name: "Dune", Price: decimal.NewFromInt(499), Quantity: 10}
	require.NoError(t, db.Create(&book).Error)

	w := postPlaceOrder(t, db, book.ID, "forged")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment Gateway Error", resp["error"])

	var orders, records int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.Zero(t, orders)
	assert.Zero(t, records)

	var stock models.Book
	require.NoError(t, db.First(&stock, "id = ?", book.ID).Error)
	assert.Equal(t, 10, stock.Quantity)
}

func TestPlaceVerifiedOrderInsufficientStockKeepsRecordOut(t *testing.T) {
	db := openTestDB(t)
	book := models.Book{Name: "Dune", Price: decimal.NewFromInt(499), Quantity: 1}
	require.NoError(t, db.Create(&book).Error)

	w := postPlaceOrder(t, db, book.ID, "valid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Placement and record share one transaction; neither may survive.
	var orders, records int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.Zero(t, orders)
	assert.Zero(t, records)
}

// Placement forces UPI even when the client claims CASH.
func TestPlaceVerifiedOrderForcesUPIMode(t *testing.T) {
	db := openTestDB(t)
	book := models.Book{Name: "Dune", Price: decimal.NewFromInt(499), Quantity: 10}
	require.NoError(t, db.Create(&book).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payment/place-order", PlaceVerifiedOrderHandler(db, fakeGateway{}, nil))

	body, err := json.Marshal(gin.H{
		"order": gin.H{
			"user_id":      7,
			"user_name":    "Asha",
			"address":      "12 Library Lane",
			"phone_number": "9876543210",
			"order_mode":   "CASH",
			"items":        []gin.H{{"book_id": book.ID, "quantity": 1}},
		},
		"payment_data": gin.H{
			"razorpay_order_id":   "order_remote",
			"razorpay_payment_id": "pay_remote",
			"razorpay_signature":  "valid",
		},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payment/place-order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, models.OrderModeUPI, order.OrderMode)
}
