package handler

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

func (h *Handler) CreateBooking(ctx context.Context, req *rpc.CreateBookingRequest) (*rpc.CreateBookingResponse, error) {
	ctx, span := tracer.Start(ctx, "booking.create", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	in := model.BookingInput{
		Customer: req.Customer,
		Email:    req.Email,
		Slot:     req.Slot,
		Status:   req.Status,
	}.Normalize()
	if err := model.ValidateBooking(in).Err(); err != nil {
		span.SetStatus(otelcodes.Error, "invalid booking")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	st := in.Status
	if st == "" {
		st = model.StatusPending
	}
	b := &model.Booking{
		ID:        uuid.New().String(),
		Customer:  in.Customer,
		Email:     in.Email,
		Slot:      in.Slot,
		Status:    st,
		CreatedAt: time.Now().UTC(),
	}
	span.SetAttributes(
		attribute.String("booking.id", b.ID),
		attribute.String("booking.slot", b.Slot),
	)

	if err := h.store.CreateBooking(ctx, b); err != nil {
		log.Printf("create booking: %v", err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "store")
		return nil, status.Error(codes.Internal, "internal error")
	}

	// stored; now tell the dashboards
	h.pub.PublishBooking(*b)

	return &rpc.CreateBookingResponse{Booking: rpc.FromModel(*b)}, nil
}
