package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financeos/internal/auth"
)

// Dashboard page handlers

func (s *Server) GetAccounts(c *gin.Context) {
	overview, err := s.dashboard.GetAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) GetTransactions(c *gin.Context) {
	page, err := s.dashboard.GetTransactions(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetPortfolio(c *gin.Context) {
	summary, err := s.dashboard.GetPortfolio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) GetAnalytics(c *gin.Context) {
	analytics, err := s.dashboard.GetAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Settings handlers

func (s *Server) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profile": auth.CurrentProfile(c)})
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName  string  `json:"full_name" binding:"required"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name is required"})
		return
	}

	profile, err := s.dashboard.UpdateProfile(c.Request.Context(), auth.CurrentProfile(c), req.FullName, req.AvatarURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
