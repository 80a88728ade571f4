package admin

import (
	"context"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"financeos/internal/database"
	"financeos/internal/models"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

type testEnv struct {
	db       *gorm.DB
	svc      *Service
	actions  *database.ActionRepository
	profiles *database.ProfileRepository
	actor    *models.Profile
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	profiles := database.NewProfileRepository(db)
	agents := database.NewAgentRepository(db)
	actions := database.NewActionRepository(db)
	metrics := monitoring.NewCollector()
	logger := zap.NewNop()
	audit := NewAuditLogger(actions, metrics, logger)
	svc := NewService(profiles, agents, actions, audit, metrics, nil, logger)

	actor := &models.Profile{Email: "admin@financeos.dev", FullName: "Operations Admin", Role: models.RoleAdmin}
	require.NoError(t, profiles.Create(context.Background(), actor))

	return &testEnv{db: db, svc: svc, actions: actions, profiles: profiles, actor: actor}
}

func (e *testEnv) createProfile(t *testing.T, email, role string) *models.Profile {
	t.Helper()
	profile := &models.Profile{Email: email, FullName: "Test User", Role: role}
	require.NoError(t, e.profiles.Create(context.Background(), profile))
	return profile
}

func (e *testEnv) auditCount(t *testing.T, actionType, targetID string) int64 {
	t.Helper()
	count, err := e.actions.CountAdminActionsFor(context.Background(), actionType, targetID)
	require.NoError(t, err)
	return count
}

func TestBanUser(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	banned, err := env.svc.BanUser(context.Background(), env.actor, target.ID, "abuse")
	require.NoError(t, err)

	assert.True(t, banned.IsBanned)
	require.NotNil(t, banned.BanReason)
	assert.Equal(t, "abuse", *banned.BanReason)
	assert.NotNil(t, banned.BannedAt)

	stored, err := env.profiles.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBanned)
	require.NotNil(t, stored.BanReason)
	assert.Equal(t, "abuse", *stored.BanReason)
	assert.NotNil(t, stored.BannedAt)

	assert.EqualValues(t, 1, env.auditCount(t, models.ActionUserBanned, target.ID),
		"a ban should append exactly one user_banned audit entry")
}

func TestBanUserRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	_, err := env.svc.BanUser(context.Background(), env.actor, target.ID, "")
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.EqualValues(t, 0, env.auditCount(t, models.ActionUserBanned, target.ID))
}

func TestBanUserAlreadyBanned(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	_, err := env.svc.BanUser(context.Background(), env.actor, target.ID, "abuse")
	require.NoError(t, err)

	_, err = env.svc.BanUser(context.Background(), env.actor, target.ID, "abuse again")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.EqualValues(t, 1, env.auditCount(t, models.ActionUserBanned, target.ID))
}

func TestBanUserSuperAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	root := env.createProfile(t, "root@financeos.dev", models.RoleSuperAdmin)

	_, err := env.svc.BanUser(context.Background(), env.actor, root.ID, "should not happen")
	assert.True(t, apperrors.IsForbidden(err))

	stored, err := env.profiles.GetByID(context.Background(), root.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)
	assert.EqualValues(t, 0, env.auditCount(t, models.ActionUserBanned, root.ID))
}

func TestUnbanUser(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	_, err := env.svc.BanUser(context.Background(), env.actor, target.ID, "abuse")
	require.NoError(t, err)

	unbanned, err := env.svc.UnbanUser(context.Background(), env.actor, target.ID)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)
	assert.Nil(t, unbanned.BanReason)
	assert.Nil(t, unbanned.BannedAt)

	stored, err := env.profiles.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)
	assert.Nil(t, stored.BanReason)
	assert.Nil(t, stored.BannedAt)

	assert.EqualValues(t, 1, env.auditCount(t, models.ActionUserUnbanned, target.ID))
}

func TestUnbanUserSuperAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	root := env.createProfile(t, "root@financeos.dev", models.RoleSuperAdmin)

	_, err := env.svc.UnbanUser(context.Background(), env.actor, root.ID)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestChangeRole(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	updated, err := env.svc.ChangeRole(context.Background(), env.actor, target.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	stored, err := env.profiles.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	assert.EqualValues(t, 1, env.auditCount(t, models.ActionRoleChanged, target.ID))
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	for _, role := range []string{"", "root", models.RoleSuperAdmin} {
		_, err := env.svc.ChangeRole(context.Background(), env.actor, target.ID, role)
		assert.True(t, apperrors.IsInvalidInput(err), "role %q should be rejected", role)
	}
}

func TestChangeRoleNoOp(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	updated, err := env.svc.ChangeRole(context.Background(), env.actor, target.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.EqualValues(t, 0, env.auditCount(t, models.ActionRoleChanged, target.ID),
		"setting the current role should not produce an audit entry")
}

func TestChangeRoleSuperAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	root := env.createProfile(t, "root@financeos.dev", models.RoleSuperAdmin)

	_, err := env.svc.ChangeRole(context.Background(), env.actor, root.ID, models.RoleUser)
	assert.True(t, apperrors.IsForbidden(err))

	stored, err := env.profiles.GetByID(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, stored.Role)
}

func TestGetOverview(t *testing.T) {
	env := newTestEnv(t)
	env.createProfile(t, "root@financeos.dev", models.RoleSuperAdmin)
	banned := env.createProfile(t, "banned@financeos.dev", models.RoleUser)
	env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	_, err := env.svc.BanUser(context.Background(), env.actor, banned.ID, "abuse")
	require.NoError(t, err)

	agents := database.NewAgentRepository(env.db)
	require.NoError(t, agents.Create(context.Background(), &models.Agent{Name: "Ledger", Type: "finance", Status: models.AgentStatusActive}))

	overview, err := env.svc.GetOverview(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, overview.TotalUsers)
	assert.EqualValues(t, 3, overview.ActiveUsers)
	assert.EqualValues(t, 1, overview.BannedUsers)
	assert.EqualValues(t, 2, overview.Admins)
	assert.EqualValues(t, 1, overview.TotalAgents)
	require.Len(t, overview.RecentActions, 1)
	assert.Equal(t, models.ActionUserBanned, overview.RecentActions[0].ActionType)
}

func TestListLogsResolvesProfiles(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProfile(t, "demo@financeos.dev", models.RoleUser)

	_, err := env.svc.BanUser(context.Background(), env.actor, target.ID, "abuse")
	require.NoError(t, err)

	logs, err := env.svc.ListLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, models.ActionUserBanned, entry.ActionType)
	require.NotNil(t, entry.Admin)
	assert.Equal(t, env.actor.Email, entry.Admin.Email)
	require.NotNil(t, entry.TargetUser)
	assert.Equal(t, target.Email, entry.TargetUser.Email)
	assert.Equal(t, "abuse", entry.Metadata["reason"])
}
