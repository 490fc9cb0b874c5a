package combinations

import "context"

// Store persists combinations. Absence is reported through booleans, not
// errors; errors are infrastructure failures.
type Store interface {
	Create(ctx context.Context, userID int, balls, stars []int) (id int, err error)
	// Exists reports whether the user already plays this exact set.
	Exists(ctx context.Context, userID int, balls, stars []int) (bool, error)
	// OwnerOf returns the owning user of a combination.
	OwnerOf(ctx context.Context, id int) (userID int, found bool, err error)
	ListByUser(ctx context.Context, userID int) ([]Combination, error)
	Update(ctx context.Context, id int, balls, stars []int) (found bool, err error)
	Delete(ctx context.Context, id int) (found bool, err error)
	// DeleteByUser removes every combination of a user, mirroring the
	// schema cascade for memory-backed deployments.
	DeleteByUser(ctx context.Context, userID int) error
}
