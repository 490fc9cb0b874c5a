package results

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"

	domainerrors "euromillones/pkg/domain-errors"
)

// Service serves and records official draw results.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a result Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ByDate returns the draw result for a validated YYYY-MM-DD date.
func (s *Service) ByDate(ctx context.Context, date string) (*DrawResult, error) {
	result, err := s.store.ByDate(ctx, date)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if result == nil {
		s.logger.InfoContext(ctx, "no result for date", "date", date)
		return nil, domainerrors.New(domainerrors.CodeNotFound, "No result found for this date")
	}
	return result, nil
}

// Record inserts or replaces the result for a draw date.
func (s *Service) Record(ctx context.Context, date string, balls, stars []int, jackpot json.RawMessage) error {
	result := &DrawResult{Date: date, Balls: balls, Stars: stars, Jackpot: jackpot}
	if err := s.store.Upsert(ctx, result); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	s.logger.InfoContext(ctx, "draw result recorded", "date", date)
	return nil
}
