// Package event announces placed orders to downstream consumers.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

// OrderPlacedType is the event type header value
const OrderPlacedType = "order.placed"

// Publisher announces a placed order
type Publisher interface {
	OrderPlaced(ctx context.Context, order models.OrderSnapshot) error
	Close() error
}

// OrderPlaced is the message body of an order.placed event
type OrderPlaced struct {
	Type       string               `json:"type"`
	OccurredAt time.Time            `json:"occurredAt"`
	Order      models.OrderSnapshot `json:"order"`
}

// MessageWriter is the part of kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a Kafka topic keyed by order id
type KafkaPublisher struct {
	writer MessageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewKafkaWriter builds the writer used in production
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaPublisher creates a publisher over w
func NewKafkaPublisher(w MessageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger, now: time.Now}
}

// OrderPlaced publishes order
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order models.OrderSnapshot) error {
	body, err := json.Marshal(OrderPlaced{
		Type:       OrderPlacedType,
		OccurredAt: p.now().UTC(),
		Order:      order,
	})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(order.ID),
		Value:   body,
		Headers: []kafka.Header{{Key: "type", Value: []byte(OrderPlacedType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}

	p.logger.DebugContext(ctx, "order event published", slog.String("order_id", order.ID))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, models.OrderSnapshot) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
