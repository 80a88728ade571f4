package agents

import (
	"context"
	"testing"
	"time"

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

type recordedAudit struct {
	adminID    string
	actionType string
}

type auditRecorder struct {
	entries []recordedAudit
}

func (a *auditRecorder) Record(ctx context.Context, adminID, actionType string, targetUserID *string, metadata models.JSON) {
	a.entries = append(a.entries, recordedAudit{adminID: adminID, actionType: actionType})
}

type eventRecorder struct {
	events []string
}

func (n *eventRecorder) Broadcast(event string, payload interface{}) {
	n.events = append(n.events, event)
}

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

func newTestService(t *testing.T, db *gorm.DB, delay time.Duration) (*Service, *auditRecorder, *eventRecorder) {
	t.Helper()
	audit := &auditRecorder{}
	events := &eventRecorder{}
	svc := NewService(
		database.NewAgentRepository(db),
		database.NewActionRepository(db),
		NewSimulator(delay),
		audit,
		monitoring.NewCollector(),
		events,
		zap.NewNop(),
	)
	return svc, audit, events
}

func createAgent(t *testing.T, db *gorm.DB, status string) *models.Agent {
	t.Helper()
	agent := &models.Agent{Name: "Ledger", Type: "finance", Status: status}
	require.NoError(t, database.NewAgentRepository(db).Create(context.Background(), agent))
	return agent
}

func createActor(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	actor := &models.Profile{Email: "admin@financeos.dev", FullName: "Operations Admin", Role: models.RoleAdmin}
	require.NoError(t, database.NewProfileRepository(db).Create(context.Background(), actor))
	return actor
}

func TestToggleStatusRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc, audit, events := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusActive)

	toggled, err := svc.ToggleStatus(context.Background(), actor, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusPaused, toggled.Status)

	toggled, err = svc.ToggleStatus(context.Background(), actor, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusActive, toggled.Status, "toggling twice should restore the original status")

	require.Len(t, audit.entries, 2)
	for _, entry := range audit.entries {
		assert.Equal(t, models.ActionAgentStatusChanged, entry.actionType)
		assert.Equal(t, actor.ID, entry.adminID)
	}
	assert.Equal(t, []string{"agent_status_changed", "agent_status_changed"}, events.events)
}

func TestToggleStatusResumesErroredAgent(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusError)

	toggled, err := svc.ToggleStatus(context.Background(), actor, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusActive, toggled.Status)
}

func TestToggleStatusRecordsActionRow(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusActive)

	_, err := svc.ToggleStatus(context.Background(), actor, agent.ID)
	require.NoError(t, err)

	actions, err := svc.RecentActions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "status_change", actions[0].Action)
	assert.Equal(t, models.ActionStatusCompleted, actions[0].Status)
	require.NotNil(t, actions[0].ExecutedBy)
	assert.Equal(t, actor.ID, *actions[0].ExecutedBy)
}

func TestToggleStatusUnknownAgent(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)

	_, err := svc.ToggleStatus(context.Background(), actor, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	svc, audit, events := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusPaused)

	action, err := svc.AssignTask(context.Background(), actor, agent.ID, TaskUnitTests, "run the nightly suite")
	require.NoError(t, err)

	assert.Equal(t, TaskUnitTests, action.Action)
	assert.Equal(t, models.ActionStatusCompleted, action.Status)
	assert.Equal(t, TaskUnitTests, action.Input["task_type"])
	assert.Equal(t, "run the nightly suite", action.Input["description"])
	assert.Equal(t, "Test Suite Executed", action.Output["summary"])

	updated, err := database.NewAgentRepository(db).GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusActive, updated.Status, "a successful task should move the agent to active")
	require.NotNil(t, updated.LastAction)
	assert.Equal(t, TaskUnitTests, *updated.LastAction)
	assert.NotNil(t, updated.LastActionAt)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.ActionAgentTaskCreated, audit.entries[0].actionType)
	assert.Equal(t, []string{"agent_task_completed"}, events.events)
}

func TestAssignTaskRequiresTaskType(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusActive)

	_, err := svc.AssignTask(context.Background(), actor, agent.ID, "", "no type")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestAssignTaskUnknownAgent(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)

	_, err := svc.AssignTask(context.Background(), actor, "missing", TaskCodeReview, "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignTaskCancelledMarksAgentErrored(t *testing.T) {
	db := newTestDB(t)
	svc, _, events := newTestService(t, db, time.Minute)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusActive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AssignTask(ctx, actor, agent.ID, TaskSecurityScan, "")
	require.Error(t, err)

	updated, err := database.NewAgentRepository(db).GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusError, updated.Status)

	actions, err := svc.RecentActions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionStatusFailed, actions[0].Status)
	assert.Equal(t, TaskSecurityScan, actions[0].Action)
	assert.Contains(t, events.events, "agent_task_failed")
}

func TestRecentActionsDefaultLimit(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db, 0)
	actor := createActor(t, db)
	agent := createAgent(t, db, models.AgentStatusActive)

	for i := 0; i < 25; i++ {
		_, err := svc.AssignTask(context.Background(), actor, agent.ID, TaskCodeReview, "")
		require.NoError(t, err)
	}

	actions, err := svc.RecentActions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, actions, 20)
}
