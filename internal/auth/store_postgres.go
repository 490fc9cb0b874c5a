package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"euromillones/internal/platform/database"
)

// PostgresCredentialStore reads credentials from PostgreSQL.
type PostgresCredentialStore struct {
	pool *database.Pool
}

// NewPostgresCredentialStore constructs a PostgreSQL-backed credential store.
func NewPostgresCredentialStore(pool *database.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

func (s *PostgresCredentialStore) ByNickname(ctx context.Context, nickname string) (*Credential, error) {
	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`SELECT id, nickname, password_hash FROM credentials WHERE nickname = $1`,
		nickname,
	)

	var c Credential
	if err := row.Scan(&c.ID, &c.Nickname, &c.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find credential by nickname: %w", err)
	}
	return &c, nil
}
