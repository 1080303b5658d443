package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

func userFixture() domain.User {
	return domain.User{
		Username:     "claire",
		Email:        "claire@example.com",
		PasswordHash: "$2a$10$fixture",
		Role:         domain.RoleUser,
	}
}

func TestUserRepo_Create(t *testing.T) {
	tx := testTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	got, err := r.Create(ctx, userFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "claire", got.Username)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.Nil(t, got.CompanyID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	tx := testTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	_, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	dup := userFixture()
	dup.Email = "other@example.com"
	_, err = r.Create(ctx, dup)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepo_Create_WithCompany(t *testing.T) {
	tx := testTx(t)
	users := repo.NewUserRepo(tx)
	companies := repo.NewCompanyRepo(tx)
	ctx := context.Background()

	company, err := companies.Create(ctx, companyFixture())
	require.NoError(t, err)

	u := userFixture()
	u.CompanyID = &company.ID
	got, err := users.Create(ctx, u)

	require.NoError(t, err)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, company.ID, *got.CompanyID)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	tx := testTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	got, err := r.GetByUsername(ctx, "claire")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "$2a$10$fixture", got.PasswordHash)

	_, err = r.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ListPaged(t *testing.T) {
	tx := testTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u := userFixture()
		u.Username = u.Username + "-" + uuid.NewString()[:8]
		u.Email = uuid.NewString()[:8] + "@example.com"
		_, err := r.Create(ctx, u)
		require.NoError(t, err)
	}

	page, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page, 2, "page size must respect the limit")
	// The shared test DB may hold rows from other suites; only a lower bound is safe.
	assert.GreaterOrEqual(t, total, int64(3))
}

func TestUserRepo_Delete(t *testing.T) {
	tx := testTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestUserRepo_Delete_CascadesJourneys(t *testing.T) {
	tx := testTx(t)
	users := repo.NewUserRepo(tx)
	journeys := repo.NewJourneyRepo(tx)
	ctx := context.Background()

	user, err := users.Create(ctx, userFixture())
	require.NoError(t, err)

	journey, err := journeys.Create(ctx, journeyFixture(user.ID))
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, user.ID))

	_, err = journeys.GetByID(ctx, journey.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
