package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/order/logic"
	"github.com/annamerheb/storefront/pricing"
)

const (
	EventOrderPlaced = "OrderPlaced"
	DefaultTopic     = "order-events"
)

// OrderPlacedEvent is published once an order is committed.
type OrderPlacedEvent struct {
	EventID        string         `json:"event_id"`
	OrderID        string         `json:"order_id"`
	CustomerID     string         `json:"customer_id"`
	Items          []logic.Item   `json:"items"`
	Totals         pricing.Totals `json:"totals"`
	CouponCode     string         `json:"coupon_code,omitempty"`
	DeliveryOption string         `json:"delivery_option"`
	Timestamp      time.Time      `json:"timestamp"`
}

// NewOrderPlacedEvent builds the event announcing o.
func NewOrderPlacedEvent(o logic.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventID:        uuid.NewString(),
		OrderID:        o.ID.String(),
		CustomerID:     o.CustomerID,
		Items:          o.Items,
		Totals:         o.Totals,
		CouponCode:     o.CouponCode,
		DeliveryOption: o.DeliveryOption,
		Timestamp:      o.CreatedAt,
	}
}

// Publisher announces placed orders.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o logic.Order) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes OrderPlaced events keyed by order id.
type KafkaPublisher struct {
	writer  MessageWriter
	logger  *zap.Logger
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}, logger)
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger, timeout: 10 * time.Second}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, o logic.Order) error {
	event := NewOrderPlacedEvent(o)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", EventOrderPlaced, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for order %s: %w", EventOrderPlaced, event.OrderID, err)
	}

	p.logger.Info("order event published",
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID),
		zap.String("customer_id", event.CustomerID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, logic.Order) error { return nil }

func (NopPublisher) Close() error { return nil }
