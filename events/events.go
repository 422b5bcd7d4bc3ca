// Package events publishes order lifecycle messages to Kafka. Publishing is
// best effort: failures are logged, never propagated into request handling.
package events

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

// Publisher writes order events. A nil Publisher is valid and publishes
// nothing, so deployments without Kafka skip this entirely.
type Publisher struct {
	created *kafka.Writer
	status  *kafka.Writer
}

// NewPublisherFromEnv returns nil when KAFKA_BROKERS is unset.
func NewPublisherFromEnv() *Publisher {
	env := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if env == "" {
		return nil
	}
	brokers := strings.Split(env, ",")
	return &Publisher{
		created: newWriter(brokers, TopicOrderCreated),
		status:  newWriter(brokers, TopicOrderStatusUpdated),
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

type orderCreatedEvent struct {
	OrderID   uint      `json:"order_id"`
	UserID    uint      `json:"user_id"`
	Total     string    `json:"total"`
	OrderMode string    `json:"order_mode"`
	CreatedAt time.Time `json:"created_at"`
}

type orderStatusEvent struct {
	OrderID   uint               `json:"order_id"`
	Status    models.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// OrderPlaced announces a successfully persisted order.
func (p *Publisher) OrderPlaced(ctx context.Context, order *models.Order) {
	if p == nil {
		return
	}
	p.write(ctx, p.created, order.ID, orderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total.String(),
		OrderMode: order.OrderMode,
		CreatedAt: order.CreatedAt,
	})
}

// OrderStatusChanged announces a committed status transition.
func (p *Publisher) OrderStatusChanged(ctx context.Context, orderID uint, status models.OrderStatus) {
	if p == nil {
		return
	}
	p.write(ctx, p.status, orderID, orderStatusEvent{
		OrderID:   orderID,
		Status:    status,
		UpdatedAt: time.Now(),
	})
}

func (p *Publisher) write(ctx context.Context, w *kafka.Writer, key uint, event interface{}) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", w.Topic, err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(key), 10)),
		Value: value,
		Time:  time.Now(),
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to write %s event: %v", w.Topic, err)
	}
}

// Close flushes and closes the underlying writers.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.created.Close()
	_ = p.status.Close()
}
