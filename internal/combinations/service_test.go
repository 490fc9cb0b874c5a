package combinations

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euromillones/internal/users"
	domainerrors "euromillones/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *users.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userStore := users.NewInMemoryStore()
	combinationStore := NewInMemoryStore()
	userStore.OnDelete(func(userID int) {
		_ = combinationStore.DeleteByUser(context.Background(), userID)
	})
	userService := users.NewService(userStore, logger)
	return NewService(combinationStore, userService, logger), userService
}

func TestAddAndList(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)

	id, err := svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)
	assert.NotZero(t, id)

	list, err := svc.ListForUser(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, list[0].Balls)
	assert.Equal(t, []int{1, 2}, list[0].Stars)
}

func TestAddUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), "ghost@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeNotFound))
	assert.EqualError(t, err, "User not found")
}

func TestAddDuplicateCombination(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	_, err = svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeConflict))
	assert.EqualError(t, err, "Combination already exists for this user")
}

func TestSameCombinationDifferentUsers(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = userSvc.Register(ctx, "bob@example.com")
	require.NoError(t, err)

	_, err = svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "bob@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	assert.NoError(t, err)
}

func TestChange(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	id, err := svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	require.NoError(t, svc.Change(ctx, id, []int{6, 7, 8, 9, 10}, []int{3, 4}))

	list, err := svc.ListForUser(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, list[0].Balls)
}

func TestChangeToExistingSetConflicts(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)
	second, err := svc.Add(ctx, "alice@example.com", []int{6, 7, 8, 9, 10}, []int{3, 4})
	require.NoError(t, err)

	err = svc.Change(ctx, second, []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeConflict))
}

func TestChangeUnknownCombination(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Change(context.Background(), 42, []int{1, 2, 3, 4, 5}, []int{1, 2})
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeNotFound))
	assert.EqualError(t, err, "Combination not found")
}

func TestRemove(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	id, err := svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, id))
	err = svc.Remove(ctx, id)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeNotFound))
}

func TestUserDeleteCascades(t *testing.T) {
	svc, userSvc := newTestService(t)
	ctx := context.Background()

	_, err := userSvc.Register(ctx, "alice@example.com")
	require.NoError(t, err)
	id, err := svc.Add(ctx, "alice@example.com", []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	require.NoError(t, userSvc.Remove(ctx, "alice@example.com"))

	err = svc.Remove(ctx, id)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeNotFound))
}
