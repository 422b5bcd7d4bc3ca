package orderControllers

import (
	"fmt"
	"testing"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeGateway records refunds and can be switched to fail them.
type fakeGateway struct {
	refunds    []fakeRefund
	failRefund bool
}

type fakeRefund struct {
	paymentID string
	amount    decimal.Decimal
}

func (g *fakeGateway) CreateOrder(amount decimal.Decimal) (*payment.Order, error) {
	return &payment.Order{ID: "order_" + uuid.NewString(), Amount: amount.Mul(decimal.NewFromInt(100)).IntPart(), Currency: "INR"}, nil
}

func (g *fakeGateway) VerifySignature(remoteOrderID, remotePaymentID, signature string) bool {
	return signature == "valid"
}

func (g *fakeGateway) Refund(paymentID string, amount decimal.Decimal) (*payment.Refund, error) {
	if g.failRefund {
		return nil, apperrors.Gateway("refund", fmt.Errorf("gateway unreachable"))
	}
	g.refunds = append(g.refunds, fakeRefund{paymentID: paymentID, amount: amount})
	return &payment.Refund{ID: "rfnd_" + uuid.NewString(), PaymentID: paymentID, Status: "processed"}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Author{}, &models.Book{}, &models.Review{},
		&models.Cart{}, &models.Order{}, &models.OrderItem{}, &models.PaymentRecord{},
	))
	return db
}

func seedBook(t *testing.T, db *gorm.DB, name string, price int64, qty int) *models.Book {
	t.Helper()
	author := models.Author{Name: "A. Writer"}
	require.NoError(t, db.Create(&author).Error)
	book := models.Book{Name: name, Price: decimal.NewFromInt(price), Quantity: qty, AuthorID: &author.ID}
	require.NoError(t, db.Create(&book).Error)
	return &book
}

func bookQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", id).Error)
	return book.Quantity
}

func placeRequest(userID uint, mode string, items ...OrderItemRequest) PlaceOrderRequest {
	return PlaceOrderRequest{
		UserID:      userID,
		UserName:    "Asha",
		Address:     "12 Library Lane",
		PhoneNumber: "9876543210",
		OrderMode:   mode,
		Items:       items,
	}
}

func TestPlaceOrderSnapshotsAndTotals(t *testing.T) {
	db := openTestDB(t)
	b1 := seedBook(t, db, "Dune", 499, 10)
	b2 := seedBook(t, db, "Hyperion", 350, 4)
	require.NoError(t, db.Create(&models.Cart{UserID: 7, BookID: b1.ID}).Error)

	order, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash,
		OrderItemRequest{BookID: b1.ID, Quantity: 2},
		OrderItemRequest{BookID: b2.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPlaced, order.OrderStatus)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Dune", order.Items[0].BookName)
	assert.Equal(t, "A. Writer", order.Items[0].AuthorName)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(998)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1348)))

	// Stock decremented and cart cleared.
	assert.Equal(t, 8, bookQuantity(t, db, b1.ID))
	assert.Equal(t, 3, bookQuantity(t, db, b2.ID))
	var cartRows int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&cartRows).Error)
	assert.Zero(t, cartRows)
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := openTestDB(t)
	b1 := seedBook(t, db, "Dune", 499, 10)
	b2 := seedBook(t, db, "Hyperion", 350, 1)

	_, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash,
		OrderItemRequest{BookID: b1.ID, Quantity: 2},
		OrderItemRequest{BookID: b2.ID, Quantity: 5},
	))
	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Hyperion", stockErr.BookName)

	// The first item's decrement must not survive the rollback.
	assert.Equal(t, 10, bookQuantity(t, db, b1.ID))
	assert.Equal(t, 1, bookQuantity(t, db, b2.ID))
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	db := openTestDB(t)

	_, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash))
	var invalid *apperrors.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func seedPaidOrder(t *testing.T, db *gorm.DB, books ...*models.Book) *models.Order {
	t.Helper()
	items := make([]OrderItemRequest, 0, len(books))
	for _, b := range books {
		items = append(items, OrderItemRequest{BookID: b.ID, Quantity: 2})
	}
	order, err := PlaceOrder(db, placeRequest(7, models.OrderModeUPI, items...))
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.PaymentRecord{
		OrderID:         order.ID,
		RemoteOrderID:   "order_remote",
		RemotePaymentID: "pay_remote",
		Signature:       "sig",
	}).Error)
	return order
}

func TestCancelOrderRefundsThenRestoresStock(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{}
	book := seedBook(t, db, "Dune", 499, 10)
	order := seedPaidOrder(t, db, book)
	assert.Equal(t, 8, bookQuantity(t, db, book.ID))

	require.NoError(t, CancelOrder(db, gw, order.ID))

	require.Len(t, gw.refunds, 1)
	assert.Equal(t, "pay_remote", gw.refunds[0].paymentID)
	assert.True(t, gw.refunds[0].amount.Equal(order.Total))

	assert.Equal(t, 10, bookQuantity(t, db, book.ID))
	var orders, items, records int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, records)
}

func TestCancelOrderGatewayFailureChangesNothing(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{failRefund: true}
	book := seedBook(t, db, "Dune", 499, 10)
	order := seedPaidOrder(t, db, book)

	err := CancelOrder(db, gw, order.ID)
	var gwErr *apperrors.GatewayError
	require.ErrorAs(t, err, &gwErr)

	// No restock, order and payment record intact.
	assert.Equal(t, 8, bookQuantity(t, db, book.ID))
	var orders, records int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 1, records)
}

func TestCancelOrderCashSkipsGateway(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{failRefund: true}
	book := seedBook(t, db, "Dune", 499, 10)
	order, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash, OrderItemRequest{BookID: book.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, CancelOrder(db, gw, order.ID))
	assert.Empty(t, gw.refunds)
	assert.Equal(t, 10, bookQuantity(t, db, book.ID))
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{}
	book := seedBook(t, db, "Dune", 499, 10)
	order := seedPaidOrder(t, db, book)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("order_status", models.OrderStatusDelivered).Error)

	err := CancelOrder(db, gw, order.ID)
	var invalidState *apperrors.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Empty(t, gw.refunds)
}

func TestRemoveOrderItemRefundsSubtotalAndRecomputesTotal(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{}
	b1 := seedBook(t, db, "Dune", 499, 10)
	b2 := seedBook(t, db, "Hyperion", 350, 10)
	order := seedPaidOrder(t, db, b1, b2)

	require.NoError(t, RemoveOrderItem(db, gw, order.ID, b2.ID))

	require.Len(t, gw.refunds, 1)
	assert.True(t, gw.refunds[0].amount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 10, bookQuantity(t, db, b2.ID))

	updated, err := getOrder(db, order.ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, b1.ID, updated.Items[0].BookID)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(998)))
}

func TestRemoveLastItemDeletesOrder(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{}
	book := seedBook(t, db, "Dune", 499, 10)
	order := seedPaidOrder(t, db, book)

	require.NoError(t, RemoveOrderItem(db, gw, order.ID, book.ID))

	var orders, records int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.Zero(t, orders)
	assert.Zero(t, records)
	assert.Equal(t, 10, bookQuantity(t, db, book.ID))
}

func TestRemoveItemGatewayFailureChangesNothing(t *testing.T) {
	db := openTestDB(t)
	gw := &fakeGateway{failRefund: true}
	book := seedBook(t, db, "Dune", 499, 10)
	order := seedPaidOrder(t, db, book)

	err := RemoveOrderItem(db, gw, order.ID, book.ID)
	var gwErr *apperrors.GatewayError
	require.ErrorAs(t, err, &gwErr)

	updated, err := getOrder(db, order.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 8, bookQuantity(t, db, book.ID))
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	db := openTestDB(t)
	book := seedBook(t, db, "Dune", 499, 10)
	order, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash, OrderItemRequest{BookID: book.ID, Quantity: 1}))
	require.NoError(t, err)

	updated, err := UpdateOrderStatus(db, order.ID, string(models.OrderStatusShipped))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.OrderStatus)

	// Re-sending the current status is a no-op.
	again, err := UpdateOrderStatus(db, order.ID, string(models.OrderStatusShipped))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, again.OrderStatus)

	// Backwards transition rejected.
	_, err = UpdateOrderStatus(db, order.ID, string(models.OrderStatusPlaced))
	var invalidState *apperrors.InvalidStateError
	require.ErrorAs(t, err, &invalidState)

	updated, err = UpdateOrderStatus(db, order.ID, string(models.OrderStatusDelivered))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.OrderStatus)

	// Delivered is terminal.
	_, err = UpdateOrderStatus(db, order.ID, string(models.OrderStatusCancelled))
	require.ErrorAs(t, err, &invalidState)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	book := seedBook(t, db, "Dune", 499, 10)
	order, err := PlaceOrder(db, placeRequest(7, models.OrderModeCash, OrderItemRequest{BookID: book.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, order.ID, "Teleported")
	var invalid *apperrors.ValidationError
	require.ErrorAs(t, err, &invalid)
}
