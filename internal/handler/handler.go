package handler

import (
	"context"

	"go.opentelemetry.io/otel"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

var tracer = otel.Tracer("slot-booking-api/internal/handler")

// Store is the record store the handler writes to.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	CreateBooking(ctx context.Context, b *model.Booking) error
}

// Publisher receives each booking once it is stored. Implementations must not
// block.
type Publisher interface {
	PublishBooking(b model.Booking)
}

// Handler implements rpc.BookingServiceServer. The HTTP and gRPC-Web layers
// call it directly.
type Handler struct {
	store Store
	pub   Publisher
	hub   *fanout.Hub
}

var _ rpc.BookingServiceServer = (*Handler)(nil)

// New returns a handler that stores through st, publishes new bookings to pub
// and serves WatchBookings from hub. pub is usually hub itself, or the relay
// publisher when bookings travel through the broker.
func New(st Store, pub Publisher, hub *fanout.Hub) *Handler {
	return &Handler{store: st, pub: pub, hub: hub}
}
