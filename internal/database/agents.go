package database

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// AgentRepository provides typed access to the agents table.
type AgentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates an agent repository
func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// List returns all agents, newest first
func (r *AgentRepository) List(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	if err := r.db.Order("created_at desc").Find(&agents).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list agents", err)
	}
	return agents, nil
}

// GetByID returns one agent by id
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.First(&agent, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("agent not found")
		}
		return nil, apperrors.NewInternalErrorWithCause("failed to load agent", err)
	}
	return &agent, nil
}

// Create inserts a new agent
func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	if err := r.db.Create(agent).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create agent", err)
	}
	return nil
}

// UpdateStatus sets an agent's status
func (r *AgentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.Model(&models.Agent{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return apperrors.NewInternalErrorWithCause("failed to update agent status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("agent not found")
	}
	return nil
}

// TouchLastAction records a successful invocation on the agent row and moves
// it to active.
func (r *AgentRepository) TouchLastAction(ctx context.Context, id, action string, at time.Time) error {
	result := r.db.Model(&models.Agent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.AgentStatusActive,
		"last_action":    action,
		"last_action_at": at,
	})
	if result.Error != nil {
		return apperrors.NewInternalErrorWithCause("failed to record agent action", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("agent not found")
	}
	return nil
}

// Count returns the number of agents
func (r *AgentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Agent{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewInternalErrorWithCause("failed to count agents", err)
	}
	return count, nil
}
