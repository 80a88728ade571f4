package database

import (
	"context"

	"github.com/jinzhu/gorm"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// SessionRepository provides typed access to the sessions table used by the
// session authentication provider.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create session", err)
	}
	return nil
}

// Get returns one session by token
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "token = ?", token).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("session not found")
		}
		return nil, apperrors.NewInternalErrorWithCause("failed to load session", err)
	}
	return &session, nil
}

// Delete removes one session by token
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to delete session", err)
	}
	return nil
}
