package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"slot-booking-api/internal/model"
)

// ErrClosed is returned by Run when the broker closes the delivery channel.
var ErrClosed = errors.New("relay: delivery channel closed")

// Sink receives bookings read from the broker, usually the local hub.
type Sink interface {
	PublishBooking(b model.Booking)
}

// Consumer reads booking messages from an exclusive, server-named queue bound
// to the exchange, so each instance sees every booking once.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewConsumer(url, exchange string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind %s: %w", RoutingKey, err)
	}
	return &Consumer{conn: conn, ch: ch, queue: q.Name}, nil
}

// Run forwards deliveries to sink until ctx is done or the broker goes away.
func (c *Consumer) Run(ctx context.Context, sink Sink) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	return drain(ctx, msgs, sink)
}

func drain(ctx context.Context, msgs <-chan amqp.Delivery, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return ErrClosed
			}
			handle(d, sink)
		}
	}
}

func handle(d amqp.Delivery, sink Sink) {
	var b model.Booking
	if err := json.Unmarshal(d.Body, &b); err != nil || b.ID == "" {
		log.Printf("relay: bad message %q: %v", d.MessageId, err)
		_ = d.Nack(false, false)
		return
	}
	sink.PublishBooking(b)
	if err := d.Ack(false); err != nil {
		log.Printf("relay ack %s: %v", b.ID, err)
	}
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
