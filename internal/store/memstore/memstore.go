// Package memstore is an in-process record store used when no database is
// configured, and by tests.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"slot-booking-api/internal/model"
)

type Store struct {
	mu         sync.Mutex
	byUsername map[string]*model.User
	byEmail    map[string]*model.User
	bookings   []model.Booking

	// fail, when set, is returned as the cause of every write
	fail error
}

func New() *Store {
	return &Store{
		byUsername: make(map[string]*model.User),
		byEmail:    make(map[string]*model.User),
	}
}

// FailWith makes subsequent writes fail with a *model.StoreError wrapping err.
// Passing nil restores normal behaviour.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return &model.StoreError{Op: "create user", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return &model.StoreError{Op: "create user", Err: s.fail}
	}
	if _, ok := s.byUsername[u.Username]; ok {
		return fmt.Errorf("create user: username: %w", model.ErrConflict)
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return fmt.Errorf("create user: email: %w", model.ErrConflict)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	s.byUsername[u.Username] = &cp
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return &model.StoreError{Op: "create booking", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return &model.StoreError{Op: "create booking", Err: s.fail}
	}
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *Store) CountBookings(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings), nil
}

// ListBookings returns up to limit bookings, newest first.
func (s *Store) ListBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.StoreError{Op: "list bookings", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, &model.StoreError{Op: "list bookings", Err: s.fail}
	}
	out := make([]model.Booking, 0, min(limit, len(s.bookings)))
	for i := len(s.bookings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.bookings[i])
	}
	return out, nil
}

// Bookings returns a copy of the stored bookings in insertion order.
func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Booking(nil), s.bookings...)
}

// Users reports how many users are stored.
func (s *Store) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUsername)
}
