package admin

import (
	"context"
	"time"

	"go.uber.org/zap"

	"financeos/internal/database"
	"financeos/internal/models"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

// Notifier pushes activity events to connected admin clients. Broadcast must
// never block.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// Service implements user moderation: listing, banning, unbanning and role
// changes, each paired with a best-effort audit entry.
type Service struct {
	profiles *database.ProfileRepository
	agents   *database.AgentRepository
	actions  *database.ActionRepository
	audit    *AuditLogger
	metrics  *monitoring.Collector
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the admin service
func NewService(profiles *database.ProfileRepository, agents *database.AgentRepository, actions *database.ActionRepository, audit *AuditLogger, metrics *monitoring.Collector, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		profiles: profiles,
		agents:   agents,
		actions:  actions,
		audit:    audit,
		metrics:  metrics,
		notifier: notifier,
		logger:   logger,
	}
}

// Overview holds the admin dashboard stats.
type Overview struct {
	TotalUsers    int64                     `json:"total_users"`
	ActiveUsers   int64                     `json:"active_users"`
	BannedUsers   int64                     `json:"banned_users"`
	Admins        int64                     `json:"admins"`
	TotalAgents   int64                     `json:"total_agents"`
	RecentActions []models.AdminActionEntry `json:"recent_actions"`
}

// ListUsers returns all profiles, optionally filtered by search term
func (s *Service) ListUsers(ctx context.Context, search string) ([]models.Profile, error) {
	return s.profiles.List(ctx, search)
}

// GetUser returns one profile
func (s *Service) GetUser(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// BanUser bans the target user with the given reason and appends exactly one
// user_banned audit entry. Super admin accounts can never be banned.
func (s *Service) BanUser(ctx context.Context, actor *models.Profile, targetID, reason string) (*models.Profile, error) {
	if reason == "" {
		return nil, apperrors.NewInvalidInputError("ban reason is required")
	}

	target, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("super admin accounts cannot be modified")
	}
	if target.IsBanned {
		return nil, apperrors.NewConflictError("user is already banned")
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"is_banned":  true,
		"ban_reason": reason,
		"banned_at":  now,
	}
	if err := s.profiles.UpdateFields(ctx, target.ID, fields); err != nil {
		return nil, err
	}
	target.IsBanned = true
	target.BanReason = &reason
	target.BannedAt = &now

	s.audit.Record(ctx, actor.ID, models.ActionUserBanned, &target.ID, models.JSON{"reason": reason})
	s.metrics.RecordAdminAction(models.ActionUserBanned)
	s.notify("user_banned", target)

	return target, nil
}

// UnbanUser lifts a ban, clearing the reason and timestamp, and appends one
// user_unbanned audit entry.
func (s *Service) UnbanUser(ctx context.Context, actor *models.Profile, targetID string) (*models.Profile, error) {
	target, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("super admin accounts cannot be modified")
	}

	fields := map[string]interface{}{
		"is_banned":  false,
		"ban_reason": nil,
		"banned_at":  nil,
	}
	if err := s.profiles.UpdateFields(ctx, target.ID, fields); err != nil {
		return nil, err
	}
	target.IsBanned = false
	target.BanReason = nil
	target.BannedAt = nil

	s.audit.Record(ctx, actor.ID, models.ActionUserUnbanned, &target.ID, nil)
	s.metrics.RecordAdminAction(models.ActionUserUnbanned)
	s.notify("user_unbanned", target)

	return target, nil
}

// ChangeRole moves the target user between the user and admin roles. Super
// admin accounts cannot be demoted and the super admin role cannot be
// granted here.
func (s *Service) ChangeRole(ctx context.Context, actor *models.Profile, targetID, role string) (*models.Profile, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.NewInvalidInputError("role must be user or admin")
	}

	target, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("super admin accounts cannot be modified")
	}
	if target.Role == role {
		return target, nil
	}

	previous := target.Role
	if err := s.profiles.UpdateFields(ctx, target.ID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	target.Role = role

	s.audit.Record(ctx, actor.ID, models.ActionRoleChanged, &target.ID, models.JSON{"from": previous, "to": role})
	s.metrics.RecordAdminAction(models.ActionRoleChanged)
	s.notify("role_changed", target)

	return target, nil
}

// GetOverview returns the stats block shown on the admin dashboard
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	total, active, banned, admins, err := s.profiles.Counts(ctx)
	if err != nil {
		return nil, err
	}
	agentCount, err := s.agents.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.actions.ListAdminActions(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalUsers:    total,
		ActiveUsers:   active,
		BannedUsers:   banned,
		Admins:        admins,
		TotalAgents:   agentCount,
		RecentActions: recent,
	}, nil
}

// ListLogs returns the most recent audit entries
func (s *Service) ListLogs(ctx context.Context, limit int) ([]models.AdminActionEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.actions.ListAdminActions(ctx, limit)
}

func (s *Service) notify(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Broadcast(event, payload)
	}
}
