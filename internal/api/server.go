package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"financeos/internal/admin"
	agentsvc "financeos/internal/agents"
	"financeos/internal/auth"
	"financeos/internal/dashboard"
	"financeos/internal/market"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

// Server is the main API handler for the dashboard backend
type Server struct {
	router    *gin.Engine
	provider  auth.Provider
	admin     *admin.Service
	agents    *agentsvc.Service
	dashboard *dashboard.Service
	plaid     *market.PlaidClient
	finnhub   *market.FinnhubClient
	metrics   *monitoring.Collector
	hub       *Hub
	logger    *zap.Logger
}

// NewServer creates the API server and wires all routes
func NewServer(provider auth.Provider, adminSvc *admin.Service, agentSvc *agentsvc.Service, dashboardSvc *dashboard.Service, plaid *market.PlaidClient, finnhub *market.FinnhubClient, metrics *monitoring.Collector, hub *Hub, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:    router,
		provider:  provider,
		admin:     adminSvc,
		agents:    agentSvc,
		dashboard: dashboardSvc,
		plaid:     plaid,
		finnhub:   finnhub,
		metrics:   metrics,
		hub:       hub,
		logger:    logger,
	}

	router.Use(s.observe())
	s.setupRoutes()
	return s
}

// Router returns the underlying gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "FinanceOS API is running"})
	})

	// Authentication is delegated to the configured provider
	s.router.Any("/auth/login", s.provider.Login)
	s.router.Any("/auth/logout", s.provider.Logout)
	s.router.Any("/auth/callback", s.provider.Callback)

	v1 := s.router.Group("/api/v1")

	// Financial data proxies
	proxies := v1.Group("", auth.RequireUser(s.provider))
	{
		proxies.GET("/plaid", s.GetPlaidEndpoints)
		proxies.POST("/plaid", s.ProxyPlaid)
		proxies.GET("/market", s.GetQuote)
		proxies.POST("/market", s.GetQuotes)
	}

	// Dashboard pages
	pages := v1.Group("", auth.RequireUser(s.provider))
	{
		pages.GET("/accounts", s.GetAccounts)
		pages.GET("/transactions", s.GetTransactions)
		pages.GET("/portfolio", s.GetPortfolio)
		pages.GET("/analytics", s.GetAnalytics)
		pages.GET("/settings/profile", s.GetProfile)
		pages.PUT("/settings/profile", s.UpdateProfile)
	}

	// Admin surface
	adminGroup := v1.Group("/admin", auth.RequireUser(s.provider), auth.RequireAdmin())
	{
		adminGroup.GET("/overview", s.GetOverview)
		adminGroup.GET("/users", s.ListUsers)
		adminGroup.POST("/users/:id/ban", s.BanUser)
		adminGroup.POST("/users/:id/unban", s.UnbanUser)
		adminGroup.PUT("/users/:id/role", s.ChangeRole)
		adminGroup.GET("/agents", s.ListAgents)
		adminGroup.GET("/agents/actions", s.ListAgentActions)
		adminGroup.POST("/agents/:id/toggle", s.ToggleAgent)
		adminGroup.POST("/agents/:id/tasks", s.AssignTask)
		adminGroup.GET("/logs", s.ListLogs)
		adminGroup.GET("/stream", s.handleStream)
	}
}

// observe records request duration and logs each served request
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.metrics.ObserveRequest(c.Request.Method, path, c.Writer.Status(), elapsed)
		s.logger.Debug("request served",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed))
	}
}

// respondError maps application errors onto HTTP responses
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
