package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/service"
)

func TestUserService_GetByID(t *testing.T) {
	user := storedUser(t)
	svc := service.NewUserService(&mockUserRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	})

	got, err := svc.GetByID(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		getByID: func(context.Context, uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_ListPaged_EmptyIsNonNil(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		listPaged: func(context.Context, domain.PaginationParams) ([]domain.User, int64, error) {
			return nil, 0, nil
		},
	})

	got, total, err := svc.ListPaged(context.Background(), domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestUserService_ListPaged_PassesParams(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
			assert.Equal(t, 3, p.Page)
			assert.Equal(t, 10, p.Limit)
			return []domain.User{storedUser(t)}, 21, nil
		},
	})

	got, total, err := svc.ListPaged(context.Background(), domain.PaginationParams{Page: 3, Limit: 10})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(21), total)
}

func TestUserService_Delete(t *testing.T) {
	deleted := false
	svc := service.NewUserService(&mockUserRepo{
		delete: func(_ context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	})

	require.NoError(t, svc.Delete(context.Background(), uuid.New()))
	assert.True(t, deleted)
}

func TestUserService_Delete_PropagatesError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := service.NewUserService(&mockUserRepo{
		delete: func(context.Context, uuid.UUID) error { return boom },
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, boom)
}
