package combinations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"euromillones/internal/platform/database"
)

// PostgresStore persists combinations in PostgreSQL. Balls and stars are
// stored as JSON arrays in text columns, matching the results table layout.
type PostgresStore struct {
	pool *database.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed combination store.
func NewPostgresStore(pool *database.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, userID int, balls, stars []int) (int, error) {
	ballsJSON, starsJSON, err := encodeSets(balls, stars)
	if err != nil {
		return 0, err
	}

	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`INSERT INTO combinations (user_id, balls, stars) VALUES ($1, $2, $3) RETURNING id`,
		userID, ballsJSON, starsJSON)

	var id int
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("create combination: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Exists(ctx context.Context, userID int, balls, stars []int) (bool, error) {
	ballsJSON, starsJSON, err := encodeSets(balls, stars)
	if err != nil {
		return false, err
	}

	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`SELECT id FROM combinations WHERE user_id = $1 AND balls = $2 AND stars = $3`,
		userID, ballsJSON, starsJSON)

	var id int
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check combination existence: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) OwnerOf(ctx context.Context, id int) (int, bool, error) {
	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`SELECT user_id FROM combinations WHERE id = $1`, id)

	var userID int
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find combination owner: %w", err)
	}
	return userID, true, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int) ([]Combination, error) {
	rows, err := s.pool.Querier(ctx).QueryContext(ctx,
		`SELECT id, user_id, balls, stars FROM combinations WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list combinations: %w", err)
	}
	defer rows.Close()

	combinations := []Combination{}
	for rows.Next() {
		var (
			c                    Combination
			ballsJSON, starsJSON string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &ballsJSON, &starsJSON); err != nil {
			return nil, fmt.Errorf("scan combination: %w", err)
		}
		if err := json.Unmarshal([]byte(ballsJSON), &c.Balls); err != nil {
			return nil, fmt.Errorf("decode balls: %w", err)
		}
		if err := json.Unmarshal([]byte(starsJSON), &c.Stars); err != nil {
			return nil, fmt.Errorf("decode stars: %w", err)
		}
		combinations = append(combinations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list combinations: %w", err)
	}
	return combinations, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int, balls, stars []int) (bool, error) {
	ballsJSON, starsJSON, err := encodeSets(balls, stars)
	if err != nil {
		return false, err
	}

	res, err := s.pool.Querier(ctx).ExecContext(ctx,
		`UPDATE combinations SET balls = $1, stars = $2 WHERE id = $3`,
		ballsJSON, starsJSON, id)
	if err != nil {
		return false, fmt.Errorf("update combination: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update combination: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int) (bool, error) {
	res, err := s.pool.Querier(ctx).ExecContext(ctx,
		`DELETE FROM combinations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete combination: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete combination: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID int) error {
	if _, err := s.pool.Querier(ctx).ExecContext(ctx,
		`DELETE FROM combinations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete combinations by user: %w", err)
	}
	return nil
}

func encodeSets(balls, stars []int) (string, string, error) {
	ballsJSON, err := json.Marshal(balls)
	if err != nil {
		return "", "", fmt.Errorf("encode balls: %w", err)
	}
	starsJSON, err := json.Marshal(stars)
	if err != nil {
		return "", "", fmt.Errorf("encode stars: %w", err)
	}
	return string(ballsJSON), string(starsJSON), nil
}
