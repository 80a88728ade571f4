package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financeos/internal/models"
)

const profileKey = "financeos.profile"

// RequireUser authenticates the request and stores the resolved profile on
// the context. Any resolution failure is treated as unauthenticated; banned
// profiles are rejected outright.
func RequireUser(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := provider.Authenticate(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if profile.IsBanned {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is banned"})
			c.Abort()
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireAdmin rejects requests whose profile is neither admin nor super
// admin. Must run after RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		if profile == nil || !profile.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the authenticated profile stored by RequireUser,
// or nil when the request is unauthenticated.
func CurrentProfile(c *gin.Context) *models.Profile {
	value, exists := c.Get(profileKey)
	if !exists {
		return nil
	}
	profile, ok := value.(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
