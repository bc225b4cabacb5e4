package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/model"
)

type fakeChannel struct {
	mu     sync.Mutex
	msgs   []amqp.Publishing
	keys   []string
	gate   chan struct{} // when set, publishes wait on it
	closed bool
	err    error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	f.keys = append(f.keys, exchange+"/"+key)
	return f.err
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) sent() []amqp.Publishing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]amqp.Publishing(nil), f.msgs...)
}

func booking(id string) model.Booking {
	return model.Booking{
		ID: id, Customer: "Alice", Email: "alice@example.com",
		Slot: "9:00 AM - 10:00 AM", Status: model.StatusPending,
		CreatedAt: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestPublisherSendsJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "booking.exchange", 4)

	p.PublishBooking(booking("b1"))
	require.NoError(t, p.Close())

	msgs := ch.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "booking.exchange/"+RoutingKey, ch.keys[0])
	assert.Equal(t, "application/json", msgs[0].ContentType)
	assert.Equal(t, "b1", msgs[0].MessageId)

	var got model.Booking
	require.NoError(t, json.Unmarshal(msgs[0].Body, &got))
	assert.Equal(t, booking("b1"), got)
	assert.True(t, ch.closed)
}

func TestPublisherDropsWhenFull(t *testing.T) {
	ch := &fakeChannel{gate: make(chan struct{})}
	p := newPublisher(ch, "x", 1)

	// first is taken by the worker and blocks on the gate, second fills the queue
	p.PublishBooking(booking("b1"))
	require.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, 5*time.Millisecond)
	p.PublishBooking(booking("b2"))
	p.PublishBooking(booking("b3"))
	assert.EqualValues(t, 1, p.Dropped())

	close(ch.gate)
	require.NoError(t, p.Close())
	assert.Len(t, ch.sent(), 2)
}

func TestPublisherAfterClose(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "x", 1)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	p.PublishBooking(booking("late"))
	assert.EqualValues(t, 1, p.Dropped())
	assert.Empty(t, ch.sent())
}

func TestPublishErrorDoesNotStopWorker(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "x", 4)
	p.PublishBooking(booking("b1"))
	p.PublishBooking(booking("b2"))
	require.NoError(t, p.Close())
	assert.Len(t, ch.sent(), 2)
}

type acker struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *acker) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	a.acked = append(a.acked, tag)
	a.mu.Unlock()
	return nil
}

func (a *acker) Nack(tag uint64, _ bool, _ bool) error {
	a.mu.Lock()
	a.nacked = append(a.nacked, tag)
	a.mu.Unlock()
	return nil
}

func (a *acker) Reject(tag uint64, requeue bool) error { return a.Nack(tag, false, requeue) }

func delivery(a *acker, tag uint64, body []byte) amqp.Delivery {
	return amqp.Delivery{Acknowledger: a, DeliveryTag: tag, Body: body}
}

func TestDrainForwardsToHub(t *testing.T) {
	hub := fanout.New(4)
	sub := hub.Subscribe()
	defer sub.Close()

	a := &acker{}
	body, err := json.Marshal(booking("b1"))
	require.NoError(t, err)

	msgs := make(chan amqp.Delivery, 3)
	msgs <- delivery(a, 1, body)
	msgs <- delivery(a, 2, []byte("not json"))
	msgs <- delivery(a, 3, []byte(`{"customer":"no id"}`))
	close(msgs)

	err = drain(context.Background(), msgs, hub)
	assert.ErrorIs(t, err, ErrClosed)

	ev := <-sub.Events()
	assert.Equal(t, fanout.EventNewBooking, ev.Name)
	assert.Equal(t, booking("b1"), ev.Booking)
	assert.Equal(t, []uint64{1}, a.acked)
	assert.Equal(t, []uint64{2, 3}, a.nacked)
}

func TestDrainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- drain(ctx, make(chan amqp.Delivery), fanout.New(1)) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("drain did not return")
	}
}
