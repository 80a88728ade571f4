package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"financeos/internal/config"
	"financeos/internal/database"
	"financeos/internal/models"
)

// Provider resolves a request's credentials to a stored profile and serves
// the login, logout and callback routes. Exactly one implementation is active
// per deployment, selected from configuration; the two wirings are never
// duplicated at the source level.
type Provider interface {
	Name() string

	// Authenticate resolves the inbound request to a profile. Any failure,
	// including lookup errors, is an authentication failure (fail closed).
	Authenticate(r *http.Request) (*models.Profile, error)

	Login(c *gin.Context)
	Logout(c *gin.Context)
	Callback(c *gin.Context)
}

// NewProvider builds the configured authentication provider
func NewProvider(cfg config.AuthConfig, profiles *database.ProfileRepository, sessions *database.SessionRepository, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "jwt":
		return NewJWTProvider(cfg, profiles, logger), nil
	case "session":
		return NewSessionProvider(cfg, profiles, sessions, logger), nil
	default:
		return nil, fmt.Errorf("unknown auth provider: %q", cfg.Provider)
	}
}
