package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// Agent statuses. An agent enters the error state when a task invocation
// fails; the admin toggle resumes it to active.
const (
	AgentStatusActive = "active"
	AgentStatusPaused = "paused"
	AgentStatusError  = "error"
)

// Agent represents a named automated worker tracked for display and
// assignment purposes; not a live running process.
type Agent struct {
	ID           string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Type         string     `gorm:"not null" json:"type"`
	Description  *string    `json:"description"`
	Status       string     `gorm:"not null;default:'active'" json:"status"`
	Config       JSON       `gorm:"type:text" json:"config"`
	Capabilities JSON       `gorm:"type:text" json:"capabilities"`
	LastAction   *string    `json:"last_action"`
	LastActionAt *time.Time `json:"last_action_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (a *Agent) BeforeCreate(scope *gorm.Scope) error {
	if a.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// NextStatus returns the status the admin toggle moves the agent into.
// Paused and error agents both resume to active.
func (a *Agent) NextStatus() string {
	if a.Status == AgentStatusActive {
		return AgentStatusPaused
	}
	return AgentStatusActive
}
