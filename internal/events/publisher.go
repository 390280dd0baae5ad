// Package events publishes order lifecycle events for downstream kitchen
// tooling. Publishing is best effort: a broker outage must never fail a
// customer's checkout, so callers log and move on.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated  = "order.created"
	TypeStatusChanged = "order.status_changed"
)

// OrderEvent is the wire payload; keyed by order id so per-order events stay
// in partition order.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	Token         string    `json:"token"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.Kafka) *kafkaPublisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *kafkaPublisher) OrderCreated(ctx context.Context, order entities.Order) error {
	return p.publish(ctx, TypeOrderCreated, order)
}

func (p *kafkaPublisher) StatusChanged(ctx context.Context, order entities.Order) error {
	return p.publish(ctx, TypeStatusChanged, order)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, order entities.Order) error {
	value, err := json.Marshal(OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		Token:         order.Token,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
