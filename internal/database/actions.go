package database

import (
	"context"

	"github.com/jinzhu/gorm"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// ActionRepository provides typed access to the append-only agent_actions
// and admin_actions tables. Rows are only ever inserted and listed.
type ActionRepository struct {
	db       *gorm.DB
	profiles *ProfileRepository
}

// NewActionRepository creates an action repository
func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db, profiles: NewProfileRepository(db)}
}

// InsertAgentAction appends one agent invocation record
func (r *ActionRepository) InsertAgentAction(ctx context.Context, action *models.AgentAction) error {
	if err := r.db.Create(action).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to record agent action", err)
	}
	return nil
}

// ListAgentActions returns the most recent agent invocations
func (r *ActionRepository) ListAgentActions(ctx context.Context, limit int) ([]models.AgentAction, error) {
	var actions []models.AgentAction
	if err := r.db.Order("executed_at desc").Limit(limit).Find(&actions).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list agent actions", err)
	}
	return actions, nil
}

// InsertAdminAction appends one audit log entry
func (r *ActionRepository) InsertAdminAction(ctx context.Context, action *models.AdminAction) error {
	if err := r.db.Create(action).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to record admin action", err)
	}
	return nil
}

// ListAdminActions returns the most recent audit entries with their actor and
// target profiles resolved.
func (r *ActionRepository) ListAdminActions(ctx context.Context, limit int) ([]models.AdminActionEntry, error) {
	var actions []models.AdminAction
	if err := r.db.Order("created_at desc").Limit(limit).Find(&actions).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list admin actions", err)
	}

	ids := make([]string, 0, len(actions)*2)
	for _, a := range actions {
		ids = append(ids, a.AdminID)
		if a.TargetUserID != nil {
			ids = append(ids, *a.TargetUserID)
		}
	}
	summaries, err := r.profiles.summariesByID(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.AdminActionEntry, 0, len(actions))
	for _, a := range actions {
		entry := models.AdminActionEntry{AdminAction: a, Admin: summaries[a.AdminID]}
		if a.TargetUserID != nil {
			entry.TargetUser = summaries[*a.TargetUserID]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CountAdminActionsFor returns the number of audit rows naming the given
// target user. Used by tests and drift monitoring.
func (r *ActionRepository) CountAdminActionsFor(ctx context.Context, actionType, targetUserID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AdminAction{}).
		Where("action_type = ? AND target_user_id = ?", actionType, targetUserID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewInternalErrorWithCause("failed to count admin actions", err)
	}
	return count, nil
}
