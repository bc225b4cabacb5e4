package store

import (
	"context"

	"slot-booking-api/internal/model"
)

// CreateUser inserts u. The unique constraints on username and email make the
// check-and-create atomic; a duplicate returns model.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1,$2,$3,$4)
		 RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		return wrap("create user", err)
	}
	return nil
}
