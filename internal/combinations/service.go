package combinations

import (
	"context"
	"log/slog"

	"euromillones/internal/users"
	domainerrors "euromillones/pkg/domain-errors"
)

// Service owns combination rules: combinations belong to a registered user
// and each user plays any given set at most once.
type Service struct {
	store  Store
	users  *users.Service
	logger *slog.Logger
}

// NewService constructs a combination Service.
func NewService(store Store, userService *users.Service, logger *slog.Logger) *Service {
	return &Service{store: store, users: userService, logger: logger}
}

// Add registers a new combination for the user with the given email.
func (s *Service) Add(ctx context.Context, email string, balls, stars []int) (int, error) {
	owner, err := s.users.Lookup(ctx, email)
	if err != nil {
		return 0, err
	}

	if err := s.ensureUnique(ctx, owner.ID, balls, stars); err != nil {
		return 0, err
	}

	id, err := s.store.Create(ctx, owner.ID, balls, stars)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	s.logger.InfoContext(ctx, "combination added",
		"email", email, "combination_id", id)
	return id, nil
}

// ListForUser returns every combination of the user with the given email.
func (s *Service) ListForUser(ctx context.Context, email string) ([]Combination, error) {
	owner, err := s.users.Lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	return list, nil
}

// Change replaces the balls and stars of an existing combination, keeping
// the per-user uniqueness rule.
func (s *Service) Change(ctx context.Context, id int, balls, stars []int) error {
	ownerID, found, err := s.store.OwnerOf(ctx, id)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if !found {
		return domainerrors.New(domainerrors.CodeNotFound, "Combination not found")
	}

	if err := s.ensureUnique(ctx, ownerID, balls, stars); err != nil {
		return err
	}

	found, err = s.store.Update(ctx, id, balls, stars)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if !found {
		return domainerrors.New(domainerrors.CodeNotFound, "Combination not found")
	}
	s.logger.InfoContext(ctx, "combination updated", "combination_id", id)
	return nil
}

// Remove deletes a combination by ID.
func (s *Service) Remove(ctx context.Context, id int) error {
	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if !found {
		return domainerrors.New(domainerrors.CodeNotFound, "Combination not found")
	}
	s.logger.InfoContext(ctx, "combination deleted", "combination_id", id)
	return nil
}

func (s *Service) ensureUnique(ctx context.Context, userID int, balls, stars []int) error {
	exists, err := s.store.Exists(ctx, userID, balls, stars)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Database error")
	}
	if exists {
		return domainerrors.New(domainerrors.CodeConflict, "Combination already exists for this user")
	}
	return nil
}
