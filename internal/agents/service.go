package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"financeos/internal/database"
	"financeos/internal/models"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

// Auditor appends entries to the admin audit log. Audit writes are
// best-effort: implementations never fail the triggering mutation.
type Auditor interface {
	Record(ctx context.Context, adminID, actionType string, targetUserID *string, metadata models.JSON)
}

// Notifier pushes activity events to connected admin clients. Broadcast must
// never block.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// Service manages agent state and task assignment.
type Service struct {
	agents   *database.AgentRepository
	actions  *database.ActionRepository
	sim      *Simulator
	audit    Auditor
	metrics  *monitoring.Collector
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the agent service
func NewService(agents *database.AgentRepository, actions *database.ActionRepository, sim *Simulator, audit Auditor, metrics *monitoring.Collector, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		agents:   agents,
		actions:  actions,
		sim:      sim,
		audit:    audit,
		metrics:  metrics,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns all agents
func (s *Service) List(ctx context.Context) ([]models.Agent, error) {
	return s.agents.List(ctx)
}

// RecentActions returns the most recent agent invocations
func (s *Service) RecentActions(ctx context.Context, limit int) ([]models.AgentAction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.actions.ListAgentActions(ctx, limit)
}

// ToggleStatus flips an agent between active and paused. Toggling twice
// restores the original status; an agent in the error state resumes to
// active.
func (s *Service) ToggleStatus(ctx context.Context, actor *models.Profile, agentID string) (*models.Agent, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	newStatus := agent.NextStatus()
	if err := s.agents.UpdateStatus(ctx, agent.ID, newStatus); err != nil {
		return nil, err
	}
	agent.Status = newStatus

	action := &models.AgentAction{
		AgentID:    agent.ID,
		Action:     "status_change",
		Input:      models.JSON{"new_status": newStatus},
		Output:     models.JSON{},
		Status:     models.ActionStatusCompleted,
		ExecutedBy: &actor.ID,
		ExecutedAt: time.Now().UTC(),
	}
	if err := s.actions.InsertAgentAction(ctx, action); err != nil {
		s.logger.Warn("failed to record status change", zap.String("agent_id", agent.ID), zap.Error(err))
	}

	s.audit.Record(ctx, actor.ID, models.ActionAgentStatusChanged, nil,
		models.JSON{"agent_id": agent.ID, "new_status": newStatus})
	s.metrics.RecordAdminAction(models.ActionAgentStatusChanged)
	s.notify("agent_status_changed", agent)

	return agent, nil
}

// AssignTask runs the task simulator against an agent and records the
// invocation. A successful run moves the agent to active and stamps its last
// action; a failed run records a failed action row and moves the agent to
// the error state.
func (s *Service) AssignTask(ctx context.Context, actor *models.Profile, agentID, taskType, description string) (*models.AgentAction, error) {
	if taskType == "" {
		return nil, apperrors.NewInvalidInputError("task type is required")
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAgentTask(taskType)

	input := models.JSON{"task_type": taskType, "description": description}
	output, err := s.sim.Simulate(ctx, taskType)
	if err != nil {
		s.recordFailure(agent, actor, taskType, input, err)
		return nil, err
	}

	action := &models.AgentAction{
		AgentID:    agent.ID,
		Action:     taskType,
		Input:      input,
		Output:     output,
		Status:     models.ActionStatusCompleted,
		ExecutedBy: &actor.ID,
		ExecutedAt: time.Now().UTC(),
	}
	if err := s.actions.InsertAgentAction(ctx, action); err != nil {
		return nil, err
	}
	if err := s.agents.TouchLastAction(ctx, agent.ID, taskType, action.ExecutedAt); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, models.ActionAgentTaskCreated, nil,
		models.JSON{"agent_id": agent.ID, "task_type": taskType})
	s.notify("agent_task_completed", action)

	return action, nil
}

// recordFailure appends a failed action row and parks the agent in the error
// state. Runs on a fresh context because the caller's may already be dead.
func (s *Service) recordFailure(agent *models.Agent, actor *models.Profile, taskType string, input models.JSON, cause error) {
	ctx := context.Background()

	action := &models.AgentAction{
		AgentID:    agent.ID,
		Action:     taskType,
		Input:      input,
		Output:     models.JSON{"error": cause.Error()},
		Status:     models.ActionStatusFailed,
		ExecutedBy: &actor.ID,
		ExecutedAt: time.Now().UTC(),
	}
	if err := s.actions.InsertAgentAction(ctx, action); err != nil {
		s.logger.Warn("failed to record failed task", zap.String("agent_id", agent.ID), zap.Error(err))
	}
	if err := s.agents.UpdateStatus(ctx, agent.ID, models.AgentStatusError); err != nil {
		s.logger.Warn("failed to mark agent errored", zap.String("agent_id", agent.ID), zap.Error(err))
	}
	s.notify("agent_task_failed", action)
}

func (s *Service) notify(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Broadcast(event, payload)
	}
}
