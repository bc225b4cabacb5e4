package handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slot-booking-api/internal/model"
	"slot-booking-api/internal/password"
	"slot-booking-api/internal/rpc"
)

func (h *Handler) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	ctx, span := tracer.Start(ctx, "user.register", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	in := model.UserInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	if err := model.ValidateUser(in).Err(); err != nil {
		span.SetStatus(otelcodes.Error, "invalid user")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	hash, err := password.Hash(in.Password)
	if errors.Is(err, password.ErrTooLong) {
		return nil, status.Error(codes.InvalidArgument, "password: too long")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(ctx, u); err != nil {
		span.RecordError(err)
		if errors.Is(err, model.ErrConflict) {
			// don't say which of username/email collided
			return nil, status.Error(codes.AlreadyExists, "username or email already registered")
		}
		log.Printf("create user: %v", err)
		span.SetStatus(otelcodes.Error, "store")
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &rpc.RegisterResponse{UserId: u.ID, Username: u.Username, Email: u.Email}, nil
}
