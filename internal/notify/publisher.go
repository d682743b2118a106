package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// OrderConfirmationPublisher pushes order confirmations onto a Kafka
// topic for the downstream mailer. Dispatch is best-effort: the
// checkout fires it on its own goroutine and only logs failures.
type OrderConfirmationPublisher struct {
	timeout time.Duration
	writer  *kafka.Writer
}

func NewOrderConfirmationPublisher(brokers ...string) *OrderConfirmationPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-confirmations",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OrderConfirmationPublisher{timeout: 5 * time.Second, writer: w}
}

func (p *OrderConfirmationPublisher) PublishOrderConfirmation(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"order_id":       order.ID,
		"customer_name":  order.ShippingAddress.Name,
		"customer_email": customerEmail(order),
		"items":          order.Items,
		"subtotal":       order.Subtotal,
		"shipping":       order.Shipping,
		"total":          order.Total,
		"payment":        order.Payment,
		"status":         order.Status,
		"created_at":     order.CreatedAt,
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order confirmation: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order confirmation: %w", err)
	}

	return nil
}

// customerEmail falls back to a phone-derived address when the customer
// gave none, so the mailer always has a recipient key.
func customerEmail(order *domain.Order) string {
	if order.ShippingAddress.Email != "" {
		return order.ShippingAddress.Email
	}
	return fmt.Sprintf("%s@minimarket.local", order.ShippingAddress.Phone)
}

func (p *OrderConfirmationPublisher) Close() error {
	return p.writer.Close()
}
