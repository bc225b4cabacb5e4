package dashboard

import (
	"context"
	"io"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

// HubDialer subscribes directly to an in-process hub.
func HubDialer(h *fanout.Hub) Dialer {
	return func(context.Context) (Stream, error) {
		return &hubStream{sub: h.Subscribe()}, nil
	}
}

type hubStream struct {
	sub *fanout.Subscription
}

func (s *hubStream) Recv() (model.Booking, error) {
	for ev := range s.sub.Events() {
		if ev.Name == fanout.EventNewBooking {
			return ev.Booking, nil
		}
	}
	return model.Booking{}, io.EOF
}

func (s *hubStream) Close() error {
	s.sub.Close()
	return nil
}

// GRPCDialer opens a WatchBookings stream. The stream lives as long as the
// context passed to the dialer.
func GRPCDialer(c rpc.BookingServiceClient) Dialer {
	return func(ctx context.Context) (Stream, error) {
		ctx, cancel := context.WithCancel(ctx)
		stream, err := c.WatchBookings(ctx, &rpc.WatchBookingsRequest{})
		if err != nil {
			cancel()
			return nil, err
		}
		// server sends headers after subscribing
		if _, err := stream.Header(); err != nil {
			cancel()
			return nil, err
		}
		return &grpcStream{stream: stream, cancel: cancel}, nil
	}
}

type grpcStream struct {
	stream rpc.WatchBookingsClient
	cancel context.CancelFunc
}

func (s *grpcStream) Recv() (model.Booking, error) {
	for {
		ev, err := s.stream.Recv()
		if err != nil {
			return model.Booking{}, err
		}
		if ev.Name != fanout.EventNewBooking || ev.Booking == nil {
			continue
		}
		return ev.Booking.Model(), nil
	}
}

func (s *grpcStream) Close() error {
	s.cancel()
	return nil
}
