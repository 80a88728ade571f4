package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

func TestProfileRepositorySearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	seed := []models.Profile{
		{Email: "alice@financeos.dev", FullName: "Alice Chen", Role: models.RoleUser},
		{Email: "bob@financeos.dev", FullName: "Bob Park", Role: models.RoleAdmin},
		{Email: "carol@example.com", FullName: "Carol Reyes", Role: models.RoleUser},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byEmail, err := repo.List(ctx, "FINANCEOS.DEV")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2, "email search is case-insensitive")

	byName, err := repo.List(ctx, "reyes")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "carol@example.com", byName[0].Email)
}

func TestProfileRepositoryGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileRepositoryUpdateFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := &models.Profile{Email: "demo@financeos.dev", FullName: "Demo User", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, profile))
	assert.NotEmpty(t, profile.ID, "create assigns an id")

	now := time.Now().UTC()
	err := repo.UpdateFields(ctx, profile.ID, map[string]interface{}{
		"is_banned":  true,
		"ban_reason": "abuse",
		"banned_at":  now,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBanned)
	require.NotNil(t, stored.BanReason)
	assert.Equal(t, "abuse", *stored.BanReason)

	err = repo.UpdateFields(ctx, "missing", map[string]interface{}{"is_banned": true})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileRepositoryCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	seed := []models.Profile{
		{Email: "root@financeos.dev", Role: models.RoleSuperAdmin},
		{Email: "admin@financeos.dev", Role: models.RoleAdmin},
		{Email: "demo@financeos.dev", Role: models.RoleUser},
		{Email: "banned@financeos.dev", Role: models.RoleUser, IsBanned: true},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	total, active, banned, admins, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.EqualValues(t, 3, active)
	assert.EqualValues(t, 1, banned)
	assert.EqualValues(t, 2, admins, "super admins count as admins")
}
