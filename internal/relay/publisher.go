// Package relay carries new bookings between instances through a RabbitMQ
// topic exchange. The publisher side replaces the in-process hub as the
// handler's Publisher; the consumer side feeds every instance's hub.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"slot-booking-api/internal/model"
)

// RoutingKey is used for every booking message.
const RoutingKey = "booking.created"

const publishTimeout = 5 * time.Second

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher queues bookings and publishes them from a single worker so the
// request path never waits on the broker. A full queue drops the booking.
type Publisher struct {
	conn     *amqp.Connection
	ch       publishChannel
	exchange string

	mu      sync.RWMutex
	closed  bool
	queue   chan model.Booking
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// Dial connects to url and declares exchange as a durable topic exchange.
func Dial(url, exchange string, buffer int) (*Publisher, error) {
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
	p := newPublisher(ch, exchange, buffer)
	p.conn = conn
	return p, nil
}

func newPublisher(ch publishChannel, exchange string, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 1
	}
	p := &Publisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan model.Booking, buffer),
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

func (p *Publisher) worker() {
	defer p.wg.Done()
	for b := range p.queue {
		if err := p.publish(b); err != nil {
			log.Printf("relay publish %s: %v", b.ID, err)
		}
	}
}

func (p *Publisher) publish(b model.Booking) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    b.ID,
		Timestamp:    b.CreatedAt,
		Body:         body,
	})
}

// PublishBooking enqueues b without blocking.
func (p *Publisher) PublishBooking(b model.Booking) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		return
	}
	select {
	case p.queue <- b:
	default:
		p.dropped.Add(1)
		log.Printf("relay queue full, dropped booking %s", b.ID)
	}
}

// Dropped counts bookings that never reached the broker queue.
func (p *Publisher) Dropped() uint64 { return p.dropped.Load() }

// Close drains the queue, then closes the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	_ = p.ch.Close()
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
