package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"financeos/internal/config"
	"financeos/internal/database"
	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// JWTProvider delegates identity to a hosted provider that hands the client a
// signed bearer token. The server only validates tokens and maps the subject
// claim onto a stored profile.
type JWTProvider struct {
	secret    []byte
	loginURL  string
	logoutURL string
	profiles  *database.ProfileRepository
	logger    *zap.Logger
}

// NewJWTProvider creates the bearer-token provider
func NewJWTProvider(cfg config.AuthConfig, profiles *database.ProfileRepository, logger *zap.Logger) *JWTProvider {
	return &JWTProvider{
		secret:    []byte(cfg.JWTSecret),
		loginURL:  cfg.LoginURL,
		logoutURL: cfg.LogoutURL,
		profiles:  profiles,
		logger:    logger,
	}
}

// Name returns the provider name
func (p *JWTProvider) Name() string { return "jwt" }

// Authenticate validates the Authorization bearer token and loads the
// profile named by its subject claim.
func (p *JWTProvider) Authenticate(r *http.Request) (*models.Profile, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.NewUnauthorizedError("authorization header required")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	subject, err := p.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	profile, err := p.profiles.GetByID(r.Context(), subject)
	if err != nil {
		// Lookup failures are authentication failures.
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	return profile, nil
}

func (p *JWTProvider) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.NewUnauthorizedError("invalid token")
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", apperrors.NewUnauthorizedError("invalid token")
	}
	return subject, nil
}

// IssueToken mints a signed token for the given profile id. Used by the
// callback flow and by tests.
func (p *JWTProvider) IssueToken(profileID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": profileID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Login redirects to the hosted identity provider's login page
func (p *JWTProvider) Login(c *gin.Context) {
	if p.loginURL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "identity provider not configured"})
		return
	}
	returnTo := c.DefaultQuery("return_to", "/dashboard")
	c.Redirect(http.StatusFound, p.loginURL+"?return_to="+url.QueryEscape(returnTo))
}

// Logout redirects to the hosted identity provider's logout page
func (p *JWTProvider) Logout(c *gin.Context) {
	if p.logoutURL == "" {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	c.Redirect(http.StatusFound, p.logoutURL)
}

// Callback completes the identity provider handoff: it validates the token
// carried on the redirect and returns it with the resolved profile.
func (p *JWTProvider) Callback(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	subject, err := p.parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	profile, err := p.profiles.GetByID(c.Request.Context(), subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": tokenString, "profile": profile})
}
