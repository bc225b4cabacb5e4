package store

import (
	"context"

	"slot-booking-api/internal/model"
)

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bookings (id, customer, email, slot, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.Customer, b.Email, b.Slot, b.Status, b.CreatedAt,
	)
	if err != nil {
		return wrap("create booking", err)
	}
	return nil
}

// CountBookings reports how many bookings are stored.
func (s *Store) CountBookings(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n); err != nil {
		return 0, wrap("count bookings", err)
	}
	return n, nil
}

// ListBookings returns up to limit bookings, newest first.
func (s *Store) ListBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, customer, email, slot, status, created_at
		 FROM bookings
		 ORDER BY created_at DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, wrap("list bookings", err)
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Customer, &b.Email, &b.Slot, &b.Status, &b.CreatedAt); err != nil {
			return nil, wrap("list bookings", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list bookings", err)
	}
	return out, nil
}
