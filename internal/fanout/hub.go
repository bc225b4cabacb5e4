// Package fanout delivers published bookings to every subscriber connected at
// publish time.
package fanout

import (
	"sync"
	"sync/atomic"

	"slot-booking-api/internal/model"
)

// EventNewBooking is the name carried by booking events on every surface.
const EventNewBooking = "new-booking"

// DefaultBuffer is the per-subscriber queue length used when New is given a
// non-positive size.
const DefaultBuffer = 16

type Event struct {
	Name    string
	Booking model.Booking
}

// Hub owns the live subscriber set. Publish never blocks: a subscriber whose
// queue is full misses the event and nobody else is affected.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int

	dropped atomic.Uint64
}

func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscription is one connection's view of the hub. Events arrive in publish
// order. The channel is closed once the subscription is removed.
type Subscription struct {
	hub *Hub
	ch  chan Event
}

func (s *Subscription) Events() <-chan Event { return s.ch }

// Close removes the subscription. It is safe to call more than once.
func (s *Subscription) Close() { s.hub.Unsubscribe(s) }

// Subscribe adds a connection to the live set. Events published before this
// call are never delivered to it.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{hub: h, ch: make(chan Event, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s from the live set and closes its channel. Removing an
// already removed subscription is a no-op.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

// Publish offers ev to every current subscriber and returns how many accepted
// it. Sends happen under the read lock, so a concurrent Unsubscribe cannot
// close a channel mid-send.
func (h *Hub) Publish(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for s := range h.subs {
		select {
		case s.ch <- ev:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

// PublishBooking publishes b as a new-booking event.
func (h *Hub) PublishBooking(b model.Booking) {
	h.Publish(Event{Name: EventNewBooking, Booking: b})
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many deliveries were skipped because a subscriber's
// queue was full.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
