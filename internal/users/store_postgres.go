package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"euromillones/internal/platform/database"
	domainerrors "euromillones/pkg/domain-errors"
)

// PostgresStore persists users in PostgreSQL. All statements run through the
// request's bound session when one is present, so row-level security applies.
type PostgresStore struct {
	pool *database.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed user store.
func NewPostgresStore(pool *database.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`SELECT id, email FROM users WHERE email = $1`, email)

	var u User
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) Create(ctx context.Context, email string) (*User, error) {
	// ON CONFLICT DO NOTHING makes the duplicate check atomic: zero rows
	// back means the email was taken.
	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`INSERT INTO users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING RETURNING id`,
		email)

	var id int
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &User{ID: id, Email: email}, nil
}

func (s *PostgresStore) UpdateEmail(ctx context.Context, oldEmail, newEmail string) (bool, error) {
	res, err := s.pool.Querier(ctx).ExecContext(ctx,
		`UPDATE users SET email = $1 WHERE email = $2`, newEmail, oldEmail)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domainerrors.New(domainerrors.CodeConflict, "New email already exists")
		}
		return false, fmt.Errorf("update user email: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user email: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) Delete(ctx context.Context, email string) (bool, error) {
	res, err := s.pool.Querier(ctx).ExecContext(ctx,
		`DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return affected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
