package users

import (
	"context"
	"log/slog"

	domainerrors "euromillones/pkg/domain-errors"
)

// Service owns user account rules: one account per email, cascade on delete.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a user Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Lookup finds a user by email.
func (s *Service) Lookup(ctx context.Context, email string) (*User, error) {
	u, err := s.store.ByEmail(ctx, email)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if u == nil {
		s.logger.InfoContext(ctx, "user not found", "email", email)
		return nil, domainerrors.New(domainerrors.CodeNotFound, "User not found")
	}
	return u, nil
}

// Register creates a user, enforcing one account per email.
func (s *Service) Register(ctx context.Context, email string) (*User, error) {
	u, err := s.store.Create(ctx, email)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if u == nil {
		s.logger.WarnContext(ctx, "attempt to create existing user", "email", email)
		return nil, domainerrors.New(domainerrors.CodeConflict, "Email already exists")
	}
	s.logger.InfoContext(ctx, "user created", "email", email)
	return u, nil
}

// ChangeEmail renames an account.
func (s *Service) ChangeEmail(ctx context.Context, oldEmail, newEmail string) error {
	found, err := s.store.UpdateEmail(ctx, oldEmail, newEmail)
	if err != nil {
		if domainerrors.HasCode(err, domainerrors.CodeConflict) {
			s.logger.WarnContext(ctx, "email rename conflict",
				"old_email", oldEmail, "new_email", newEmail)
			return err
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if !found {
		return domainerrors.New(domainerrors.CodeNotFound, "User not found")
	}
	s.logger.InfoContext(ctx, "user email updated",
		"old_email", oldEmail, "new_email", newEmail)
	return nil
}

// Remove deletes an account; the schema cascades to its combinations.
func (s *Service) Remove(ctx context.Context, email string) error {
	found, err := s.store.Delete(ctx, email)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if !found {
		return domainerrors.New(domainerrors.CodeNotFound, "User not found")
	}
	s.logger.InfoContext(ctx, "user deleted", "email", email)
	return nil
}
