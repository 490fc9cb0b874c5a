package users

import "context"

// Store persists users. Lookups return (nil, nil) when no row matches;
// Create returns (nil, nil) when the email is already taken.
type Store interface {
	ByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email string) (*User, error)
	// UpdateEmail reports found=false when no user has oldEmail. Taking an
	// email that already exists surfaces as a conflict-coded error.
	UpdateEmail(ctx context.Context, oldEmail, newEmail string) (found bool, err error)
	// Delete removes the user and, through the schema's cascade, their
	// combinations.
	Delete(ctx context.Context, email string) (found bool, err error)
}
