package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// Agent action statuses
const (
	ActionStatusCompleted = "completed"
	ActionStatusFailed    = "failed"
)

// Admin action types appended to the audit log.
const (
	ActionUserBanned         = "user_banned"
	ActionUserUnbanned       = "user_unbanned"
	ActionRoleChanged        = "role_changed"
	ActionAgentStatusChanged = "agent_status_changed"
	ActionAgentTaskCreated   = "agent_task_created"
)

// AgentAction records one invocation of an agent, carrying input and output
// payloads and a completion status. Rows are append-only.
type AgentAction struct {
	ID         string    `gorm:"primary_key;type:varchar(36)" json:"id"`
	AgentID    string    `gorm:"index;not null" json:"agent_id"`
	Action     string    `gorm:"not null" json:"action"`
	Input      JSON      `gorm:"type:text" json:"input"`
	Output     JSON      `gorm:"type:text" json:"output"`
	Status     string    `gorm:"not null" json:"status"`
	ExecutedBy *string   `json:"executed_by"`
	ExecutedAt time.Time `json:"executed_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (a *AgentAction) BeforeCreate(scope *gorm.Scope) error {
	if a.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// AdminAction is an append-only audit log entry recording a privileged
// mutation. Entries are never updated or deleted.
type AdminAction struct {
	ID           string    `gorm:"primary_key;type:varchar(36)" json:"id"`
	AdminID      string    `gorm:"index;not null" json:"admin_id"`
	ActionType   string    `gorm:"not null" json:"action_type"`
	TargetUserID *string   `gorm:"index" json:"target_user_id"`
	Metadata     JSON      `gorm:"type:text" json:"metadata"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (a *AdminAction) BeforeCreate(scope *gorm.Scope) error {
	if a.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// ProfileSummary is the slim actor/target shape joined onto audit entries.
type ProfileSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AdminActionEntry is an audit row with its actor and target resolved.
type AdminActionEntry struct {
	AdminAction
	Admin      *ProfileSummary `json:"admin"`
	TargetUser *ProfileSummary `json:"target_user"`
}
