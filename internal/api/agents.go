package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"financeos/internal/auth"
)

// Agent management handlers

func (s *Server) ListAgents(c *gin.Context) {
	agents, err := s.agents.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (s *Server) ListAgentActions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	actions, err := s.agents.RecentActions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

func (s *Server) ToggleAgent(c *gin.Context) {
	actor := auth.CurrentProfile(c)
	agent, err := s.agents.ToggleStatus(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

func (s *Server) AssignTask(c *gin.Context) {
	var req struct {
		TaskType    string `json:"task_type" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_type is required"})
		return
	}

	actor := auth.CurrentProfile(c)
	action, err := s.agents.AssignTask(c.Request.Context(), actor, c.Param("id"), req.TaskType, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"action": action})
}
