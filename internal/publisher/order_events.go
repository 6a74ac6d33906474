package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/goshop/cart-checkout/internal/domain"
)

// OrderEvents announces durable orders to downstream consumers
// (fulfilment, notifications). Publishing is best-effort: the order is
// authoritative once stored, with or without the event.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
	Close() error
}

type KafkaPublisher struct {
	timeout time.Duration
	writer  *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{time.Second * 5, w}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"owner_id":     order.OwnerID,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OwnerID), // owner id for per-owner ordering
		Value: payloadJSON,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, *domain.Order) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
