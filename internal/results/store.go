package results

import "context"

// Store persists draw results keyed by date. ByDate returns (nil, nil) when
// no draw is recorded for the date.
type Store interface {
	ByDate(ctx context.Context, date string) (*DrawResult, error)
	// Upsert inserts or replaces the result for its date.
	Upsert(ctx context.Context, result *DrawResult) error
}
