// Package payment talks to the Razorpay-compatible gateway. It is treated as
// an untrusted, fallible network boundary: verification fails closed and
// refund errors are always surfaced to the caller.
package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the opaque order handle returned by the gateway.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Refund is the gateway's refund receipt.
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// Gateway is the payment-gateway contract the order engine depends on.
type Gateway interface {
	CreateOrder(amount decimal.Decimal) (*Order, error)
	VerifySignature(remoteOrderID, remotePaymentID, signature string) bool
	Refund(paymentID string, amount decimal.Decimal) (*Refund, error)
	KeyID() string
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClientFromEnv reads RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET and optionally
// RAZORPAY_API_URL.
func NewClientFromEnv() (*Client, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay configuration missing")
	}
	apiURL := os.Getenv("RAZORPAY_API_URL")
	if apiURL == "" {
		apiURL = "https://api.razorpay.com/v1"
	}
	return NewClient(keyID, keySecret, apiURL), nil
}

func NewClient(keyID, keySecret, apiURL string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) KeyID() string { return c.keyID }

// paise converts a rupee amount to gateway minor units.
func paise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateOrder registers a payment intent with the gateway and returns its
// order handle.
func (c *Client) CreateOrder(amount decimal.Decimal) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   paise(amount),
		"currency": "INR",
		"receipt":  "txn_" + uuid.NewString(),
	}
	var order Order
	if err := c.post("/orders", payload, &order); err != nil {
		return nil, apperrors.Gateway("create order", err)
	}
	if order.ID == "" {
		return nil, apperrors.Gateway("create order", fmt.Errorf("gateway returned empty order id"))
	}
	return &order, nil
}

// VerifySignature checks the HMAC-SHA256 of "order_id|payment_id" against the
// shared secret. Any mismatch or malformed input is a failure, never a
// success.
func (c *Client) VerifySignature(remoteOrderID, remotePaymentID, signature string) bool {
	if remoteOrderID == "" || remotePaymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(remoteOrderID + "|" + remotePaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund issues a refund for the given payment. Network/API failures come
// back as a GatewayError and must leave domain state unchanged.
func (c *Client) Refund(paymentID string, amount decimal.Decimal) (*Refund, error) {
	payload := map[string]interface{}{
		"amount": paise(amount),
		"speed":  "normal",
	}
	var refund Refund
	if err := c.post("/payments/"+paymentID+"/refund", payload, &refund); err != nil {
		return nil, apperrors.Gateway("refund", err)
	}
	return &refund, nil
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}
