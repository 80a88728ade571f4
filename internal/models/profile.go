package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// Profile roles. A profile's role is stored alongside the identity record and
// gates access to the admin surface.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Profile represents a stored user identity record, distinct from the
// identity provider's own user object.
type Profile struct {
	ID           string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	Email        string     `gorm:"unique_index;not null" json:"email"`
	FullName     string     `json:"full_name"`
	AvatarURL    *string    `json:"avatar_url"`
	Role         string     `gorm:"not null;default:'user'" json:"role"`
	IsBanned     bool       `gorm:"not null;default:false" json:"is_banned"`
	BanReason    *string    `json:"ban_reason"`
	BannedAt     *time.Time `json:"banned_at"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (p *Profile) BeforeCreate(scope *gorm.Scope) error {
	if p.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// IsAdmin reports whether the profile may access the admin surface.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether the profile holds the super admin role.
func (p *Profile) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Session represents a server-side login session used by the session
// authentication provider. The JWT provider keeps no server state.
type Session struct {
	Token     string    `gorm:"primary_key;type:varchar(36)" json:"token"`
	ProfileID string    `gorm:"index;not null" json:"profile_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
