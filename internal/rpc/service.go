package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "booking.v1.BookingService"

	CreateBookingMethod = "/booking.v1.BookingService/CreateBooking"
	RegisterMethod      = "/booking.v1.BookingService/Register"
	WatchBookingsMethod = "/booking.v1.BookingService/WatchBookings"
)

type BookingServiceServer interface {
	CreateBooking(context.Context, *CreateBookingRequest) (*CreateBookingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	WatchBookings(*WatchBookingsRequest, WatchBookingsServer) error
}

type WatchBookingsServer interface {
	Send(*BookingEvent) error
	grpc.ServerStream
}

// RegisterBookingServiceServer attaches srv to s. The server must be created
// with grpc.ForceServerCodec(Codec{}).
func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBooking", Handler: createBookingHandler},
		{MethodName: "Register", Handler: registerHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchBookings", Handler: watchBookingsHandler, ServerStreams: true},
	},
	Metadata: "booking/v1/booking.proto",
}

func createBookingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateBookingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).CreateBooking(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateBookingMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).CreateBooking(ctx, req.(*CreateBookingRequest))
	})
}

func registerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RegisterMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).Register(ctx, req.(*RegisterRequest))
	})
}

func watchBookingsHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchBookingsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(BookingServiceServer).WatchBookings(in, &watchBookingsServer{stream})
}

type watchBookingsServer struct {
	grpc.ServerStream
}

func (x *watchBookingsServer) Send(m *BookingEvent) error {
	return x.ServerStream.SendMsg(m)
}
