package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NotFoundError names the missing resource (order, book, payment record,
// return request, ...).
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError rejects an operation not permitted in the current status.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the offending book so the client can react
// without polling.
type InsufficientStockError struct {
	BookName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book: %s (requested %d, available %d)",
		e.BookName, e.Requested, e.Available)
}

// DuplicateRequestError signals an already active return/replacement request
// for the same (order, book) pair.
type DuplicateRequestError struct {
	OrderID uint
	BookID  uint
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("an active return/replacement request already exists for book %d in order %d",
		e.BookID, e.OrderID)
}

// GatewayError wraps a payment-gateway network/API failure. Callers must
// propagate it and leave domain state unchanged.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func Gateway(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

// ValidationError reports malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Respond maps a typed error to its HTTP status and writes the standard
// error body. Unclassified errors become an opaque 500.
func Respond(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	label := "Unexpected Error"
	message := "internal server error"

	var (
		notFound     *NotFoundError
		invalidState *InvalidStateError
		noStock      *InsufficientStockError
		duplicate    *DuplicateRequestError
		gateway      *GatewayError
		validation   *ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		status, label, message = http.StatusNotFound, "Resource Not Found", notFound.Error()
	case errors.As(err, &invalidState):
		status, label, message = http.StatusConflict, "Invalid State", invalidState.Error()
	case errors.As(err, &noStock):
		status, label, message = http.StatusBadRequest, "Insufficient Stock", noStock.Error()
	case errors.As(err, &duplicate):
		status, label, message = http.StatusBadRequest, "Duplicate Request", duplicate.Error()
	case errors.As(err, &gateway):
		status, label, message = http.StatusBadGateway, "Payment Gateway Error", gateway.Error()
	case errors.As(err, &validation):
		status, label, message = http.StatusBadRequest, "Validation Failed", validation.Error()
	}

	c.JSON(status, gin.H{
		"timestamp": time.Now(),
		"status":    status,
		"error":     label,
		"message":   message,
	})
}
