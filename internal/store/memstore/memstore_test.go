package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slot-booking-api/internal/model"
)

func TestCreateUserConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "1", Username: "alice", Email: "alice@example.com"}))

	err := s.CreateUser(ctx, &model.User{ID: "2", Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, model.ErrConflict, "duplicate username")

	err = s.CreateUser(ctx, &model.User{ID: "3", Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, model.ErrConflict, "duplicate email")

	assert.Equal(t, 1, s.Users())
}

func TestConcurrentCreateUser(t *testing.T) {
	s := New()

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.CreateUser(context.Background(), &model.User{
				ID:       fmt.Sprint(i),
				Username: "same",
				Email:    fmt.Sprintf("u%d@example.com", i),
			})
		}(i)
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCreateBookingAllowsSameSlot(t *testing.T) {
	s := New()
	ctx := context.Background()
	b := model.Booking{Customer: "Alice", Email: "a@b.c", Slot: "9:00 AM - 10:00 AM"}

	require.NoError(t, s.CreateBooking(ctx, &b))
	require.NoError(t, s.CreateBooking(ctx, &b))

	n, err := s.CountBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFailWith(t *testing.T) {
	s := New()
	s.FailWith(errors.New("disk full"))

	err := s.CreateBooking(context.Background(), &model.Booking{Customer: "A"})
	var se *model.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create booking", se.Op)
	assert.Empty(t, s.Bookings())

	s.FailWith(nil)
	require.NoError(t, s.CreateBooking(context.Background(), &model.Booking{Customer: "A"}))
}

func TestCanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var se *model.StoreError
	assert.ErrorAs(t, s.CreateUser(ctx, &model.User{Username: "x", Email: "x@y.z"}), &se)
	assert.Zero(t, s.Users())
}

func TestListBookingsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateBooking(ctx, &model.Booking{ID: fmt.Sprint(i), Customer: "c", Email: "e", Slot: "s"}))
	}

	got, err := s.ListBookings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "1", got[1].ID)

	all, err := s.ListBookings(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	s.FailWith(errors.New("db down"))
	_, err = s.ListBookings(ctx, 10)
	var se *model.StoreError
	assert.ErrorAs(t, err, &se)
}
