package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot-booking-api/internal/model"
)

//go:embed migrations/001_init.sql
var initSQL string

// Store persists users and bookings in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the schema. Safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, initSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// unique_violation
const codeUniqueViolation = "23505"

func wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, model.ErrConflict)
	}
	return &model.StoreError{Op: op, Err: err}
}
