package handler

import (
	"log"

	"google.golang.org/grpc/metadata"

	"slot-booking-api/internal/rpc"
)

// WatchBookings streams new bookings until the client goes away. Headers are
// sent once the subscription is live, so a client that has read them will see
// every booking published afterwards.
func (h *Handler) WatchBookings(_ *rpc.WatchBookingsRequest, stream rpc.WatchBookingsServer) error {
	sub := h.hub.Subscribe()
	defer sub.Close()

	if err := stream.SendHeader(metadata.MD{}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := stream.Send(&rpc.BookingEvent{Name: ev.Name, Booking: rpc.FromModel(ev.Booking)}); err != nil {
				// transport gone; the deferred Close drops the subscriber
				log.Printf("watch: send: %v", err)
				return err
			}
		}
	}
}
