package admin

import (
	"context"
	"time"

	"go.uber.org/zap"

	"financeos/internal/database"
	"financeos/internal/models"
	"financeos/internal/monitoring"
)

// AuditLogger appends admin actions to the audit log.
//
// Consistency contract: audit writes are best-effort. Record runs after the
// primary mutation has committed; when the insert fails the entry is lost,
// the failure is logged and counted (admin_audit_failures_total), and the
// primary mutation is not rolled back. Monitor that counter for drift.
type AuditLogger struct {
	actions *database.ActionRepository
	metrics *monitoring.Collector
	logger  *zap.Logger
}

// NewAuditLogger creates the audit logger
func NewAuditLogger(actions *database.ActionRepository, metrics *monitoring.Collector, logger *zap.Logger) *AuditLogger {
	return &AuditLogger{actions: actions, metrics: metrics, logger: logger}
}

// Record appends one audit entry for the acting admin
func (l *AuditLogger) Record(ctx context.Context, adminID, actionType string, targetUserID *string, metadata models.JSON) {
	if metadata == nil {
		metadata = models.JSON{}
	}
	entry := &models.AdminAction{
		AdminID:      adminID,
		ActionType:   actionType,
		TargetUserID: targetUserID,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}

	if err := l.actions.InsertAdminAction(ctx, entry); err != nil {
		l.metrics.RecordAuditFailure()
		l.logger.Error("audit entry lost",
			zap.String("action_type", actionType),
			zap.String("admin_id", adminID),
			zap.Error(err))
	}
}
