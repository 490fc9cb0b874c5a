package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"euromillones/internal/platform/database"
)

// PostgresStore persists draw results in PostgreSQL. The balls column is
// named bolas; the table predates the API and is shared with older tooling.
type PostgresStore struct {
	pool *database.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed result store.
func NewPostgresStore(pool *database.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ByDate(ctx context.Context, date string) (*DrawResult, error) {
	row := s.pool.Querier(ctx).QueryRowContext(ctx,
		`SELECT date, bolas, stars, jackpot FROM results WHERE date = $1`, date)

	var (
		r                             DrawResult
		ballsJSON, starsJSON, jackpot string
	)
	if err := row.Scan(&r.Date, &ballsJSON, &starsJSON, &jackpot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find result by date: %w", err)
	}
	if err := json.Unmarshal([]byte(ballsJSON), &r.Balls); err != nil {
		return nil, fmt.Errorf("decode balls: %w", err)
	}
	if err := json.Unmarshal([]byte(starsJSON), &r.Stars); err != nil {
		return nil, fmt.Errorf("decode stars: %w", err)
	}
	r.Jackpot = json.RawMessage(jackpot)
	return &r, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, result *DrawResult) error {
	ballsJSON, err := json.Marshal(result.Balls)
	if err != nil {
		return fmt.Errorf("encode balls: %w", err)
	}
	starsJSON, err := json.Marshal(result.Stars)
	if err != nil {
		return fmt.Errorf("encode stars: %w", err)
	}
	jackpot := result.Jackpot
	if len(jackpot) == 0 {
		jackpot = json.RawMessage("null")
	}

	if _, err := s.pool.Querier(ctx).ExecContext(ctx,
		`INSERT INTO results (date, bolas, stars, jackpot)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (date) DO UPDATE
		 SET bolas = EXCLUDED.bolas,
		     stars = EXCLUDED.stars,
		     jackpot = EXCLUDED.jackpot`,
		result.Date, string(ballsJSON), string(starsJSON), string(jackpot),
	); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}
