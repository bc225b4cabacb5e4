package handler_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/handler"
	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
	"slot-booking-api/internal/store/memstore"
)

type recorder struct {
	mu   sync.Mutex
	sent []model.Booking
}

func (r *recorder) PublishBooking(b model.Booking) {
	r.mu.Lock()
	r.sent = append(r.sent, b)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func setup(t *testing.T) (*handler.Handler, *memstore.Store, *recorder) {
	t.Helper()
	st := memstore.New()
	pub := &recorder{}
	return handler.New(st, pub, fanout.New(8)), st, pub
}

func code(err error) codes.Code {
	s, _ := status.FromError(err)
	return s.Code()
}

// ----- bookings -----

func TestCreateBooking(t *testing.T) {
	h, st, pub := setup(t)

	resp, err := h.CreateBooking(context.Background(), &rpc.CreateBookingRequest{
		Customer: "Alice", Email: "alice@example.com", Slot: "9:00 AM - 10:00 AM",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b := resp.Booking
	if b.Id == "" {
		t.Fatal("empty id")
	}
	if b.Customer != "Alice" {
		t.Errorf("customer: got %s", b.Customer)
	}
	if b.Status != model.StatusPending {
		t.Errorf("status: got %q", b.Status)
	}
	if b.CreatedAt == nil {
		t.Error("missing created at")
	}

	if got := len(st.Bookings()); got != 1 {
		t.Fatalf("expected 1 stored booking, got %d", got)
	}
	if pub.count() != 1 {
		t.Fatalf("expected 1 publish, got %d", pub.count())
	}
	if pub.sent[0].ID != b.Id {
		t.Errorf("published %s, responded %s", pub.sent[0].ID, b.Id)
	}
}

func TestCreateBookingKeepsStatus(t *testing.T) {
	h, _, _ := setup(t)

	resp, err := h.CreateBooking(context.Background(), &rpc.CreateBookingRequest{
		Customer: " Bob ", Email: "bob@example.com", Slot: "10:00 AM - 11:00 AM", Status: "Pending review",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Booking.Status != "Pending review" {
		t.Errorf("status: got %q", resp.Booking.Status)
	}
	if resp.Booking.Customer != "Bob" {
		t.Errorf("customer not trimmed: %q", resp.Booking.Customer)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h, st, pub := setup(t)

	tests := []struct {
		name string
		req  *rpc.CreateBookingRequest
	}{
		{"empty customer", &rpc.CreateBookingRequest{Email: "a@b.c", Slot: "9:00 AM - 10:00 AM"}},
		{"blank customer", &rpc.CreateBookingRequest{Customer: "  ", Email: "a@b.c", Slot: "9:00 AM - 10:00 AM"}},
		{"empty email", &rpc.CreateBookingRequest{Customer: "A", Slot: "9:00 AM - 10:00 AM"}},
		{"empty slot", &rpc.CreateBookingRequest{Customer: "A", Email: "a@b.c"}},
		{"unknown slot", &rpc.CreateBookingRequest{Customer: "A", Email: "a@b.c", Slot: "Loan Application"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateBooking(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", code(err))
			}
		})
	}

	if n := len(st.Bookings()); n != 0 {
		t.Errorf("expected no bookings, got %d", n)
	}
	if pub.count() != 0 {
		t.Errorf("expected no publishes, got %d", pub.count())
	}
}

func TestCreateBookingStoreFailure(t *testing.T) {
	h, st, pub := setup(t)
	st.FailWith(errors.New("connection reset"))

	_, err := h.CreateBooking(context.Background(), &rpc.CreateBookingRequest{
		Customer: "Alice", Email: "alice@example.com", Slot: "9:00 AM - 10:00 AM",
	})
	if code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
	if s, _ := status.FromError(err); s.Message() != "internal error" {
		t.Errorf("store detail leaked: %q", s.Message())
	}
	if pub.count() != 0 {
		t.Error("published after failed store")
	}

	// next submission is unaffected
	st.FailWith(nil)
	if _, err := h.CreateBooking(context.Background(), &rpc.CreateBookingRequest{
		Customer: "Alice", Email: "alice@example.com", Slot: "9:00 AM - 10:00 AM",
	}); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestResubmissionCreatesSecondBooking(t *testing.T) {
	h, st, pub := setup(t)
	req := &rpc.CreateBookingRequest{Customer: "Alice", Email: "alice@example.com", Slot: "9:00 AM - 10:00 AM"}

	r1, err := h.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	r2, err := h.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if r1.Booking.Id == r2.Booking.Id {
		t.Error("expected distinct ids")
	}
	if len(st.Bookings()) != 2 || pub.count() != 2 {
		t.Errorf("expected 2 bookings and 2 publishes, got %d and %d", len(st.Bookings()), pub.count())
	}
}

func TestConcurrentBookings(t *testing.T) {
	h, st, pub := setup(t)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.CreateBooking(context.Background(), &rpc.CreateBookingRequest{
				Customer: fmt.Sprintf("customer-%d", i), Email: "c@example.com", Slot: "9:00 AM - 10:00 AM",
			})
			if err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if len(st.Bookings()) != n || pub.count() != n {
		t.Errorf("expected %d bookings and publishes, got %d and %d", n, len(st.Bookings()), pub.count())
	}
}

// ----- users -----

func TestRegister(t *testing.T) {
	h, _, _ := setup(t)

	rr, err := h.Register(context.Background(), &rpc.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if rr.UserId == "" {
		t.Fatal("empty user id")
	}
	if rr.Username != "alice" || rr.Email != "alice@example.com" {
		t.Errorf("unexpected response: %+v", rr)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, st, _ := setup(t)

	tests := []struct {
		name string
		req  *rpc.RegisterRequest
	}{
		{"empty username", &rpc.RegisterRequest{Email: "a@b.com", Password: "testpass123"}},
		{"empty email", &rpc.RegisterRequest{Username: "a", Password: "testpass123"}},
		{"bad email", &rpc.RegisterRequest{Username: "a", Email: "nope", Password: "testpass123"}},
		{"empty password", &rpc.RegisterRequest{Username: "a", Email: "a@b.com"}},
		{"short password", &rpc.RegisterRequest{Username: "a", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Register(context.Background(), tt.req)
			if code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
	if st.Users() != 0 {
		t.Errorf("expected no users, got %d", st.Users())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	h, _, _ := setup(t)

	_, err := h.Register(context.Background(), &rpc.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	dups := []*rpc.RegisterRequest{
		{Username: "alice", Email: "other@example.com", Password: "testpass123"},
		{Username: "alice2", Email: "alice@example.com", Password: "testpass123"},
	}
	for _, req := range dups {
		_, err := h.Register(context.Background(), req)
		if code(err) != codes.AlreadyExists {
			t.Errorf("%s/%s: expected AlreadyExists, got %v", req.Username, req.Email, err)
		}
	}
}

func TestConcurrentRegister(t *testing.T) {
	h, _, _ := setup(t)

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.Register(context.Background(), &rpc.RegisterRequest{
				Username: "same", Email: fmt.Sprintf("u%d@example.com", i), Password: "testpass123",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
		} else if code(err) == codes.AlreadyExists {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	h, st, _ := setup(t)
	st.FailWith(errors.New("db down"))

	_, err := h.Register(context.Background(), &rpc.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "testpass123",
	})
	if code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", err)
	}
}
