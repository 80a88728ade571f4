package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"financeos/internal/config"
	"financeos/internal/database"
	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// SessionCookie is the name of the session cookie set on login.
const SessionCookie = "financeos_session"

// SessionProvider keeps login state server side: a cookie carries an opaque
// token resolved against the sessions table. Credentials are checked against
// the profile's stored bcrypt hash.
type SessionProvider struct {
	profiles *database.ProfileRepository
	sessions *database.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewSessionProvider creates the cookie-session provider
func NewSessionProvider(cfg config.AuthConfig, profiles *database.ProfileRepository, sessions *database.SessionRepository, logger *zap.Logger) *SessionProvider {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionProvider{profiles: profiles, sessions: sessions, ttl: ttl, logger: logger}
}

// Name returns the provider name
func (p *SessionProvider) Name() string { return "session" }

// Authenticate resolves the session cookie to a profile
func (p *SessionProvider) Authenticate(r *http.Request) (*models.Profile, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.NewUnauthorizedError("session cookie required")
	}

	session, err := p.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid session")
	}
	if session.Expired() {
		if err := p.sessions.Delete(r.Context(), session.Token); err != nil {
			p.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, apperrors.NewUnauthorizedError("session expired")
	}

	profile, err := p.profiles.GetByID(r.Context(), session.ProfileID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid session")
	}
	return profile, nil
}

// Login checks email and password and opens a new session
func (p *SessionProvider) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	profile, err := p.profiles.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		ProfileID: profile.ID,
		ExpiresAt: time.Now().Add(p.ttl),
	}
	if err := p.sessions.Create(c.Request.Context(), session); err != nil {
		p.logger.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.SetCookie(SessionCookie, session.Token, int(p.ttl.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Logout closes the current session and clears the cookie
func (p *SessionProvider) Logout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := p.sessions.Delete(c.Request.Context(), cookie.Value); err != nil {
			p.logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Callback is not part of the session wiring; there is no external redirect
// to complete.
func (p *SessionProvider) Callback(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "callback not supported by session provider"})
}
