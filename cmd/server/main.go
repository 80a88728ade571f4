package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"financeos/internal/admin"
	agentsvc "financeos/internal/agents"
	"financeos/internal/api"
	"financeos/internal/auth"
	"financeos/internal/config"
	"financeos/internal/dashboard"
	"financeos/internal/database"
	"financeos/internal/logging"
	"financeos/internal/market"
	"financeos/internal/monitoring"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Seed(db); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	// Repositories
	profiles := database.NewProfileRepository(db)
	agents := database.NewAgentRepository(db)
	actions := database.NewActionRepository(db)
	sessions := database.NewSessionRepository(db)
	finance := database.NewFinanceRepository(db)

	// Services
	metrics := monitoring.NewCollector()
	hub := api.NewHub(logger)
	audit := admin.NewAuditLogger(actions, metrics, logger)
	adminSvc := admin.NewService(profiles, agents, actions, audit, metrics, hub, logger)
	simulator := agentsvc.NewSimulator(cfg.Simulator.Delay)
	agentSvc := agentsvc.NewService(agents, actions, simulator, audit, metrics, hub, logger)
	dashboardSvc := dashboard.NewService(finance, profiles)
	plaid := market.NewPlaidClient(cfg.PlaidBaseURL(), cfg.Plaid, metrics, logger)
	finnhub := market.NewFinnhubClient(cfg.Finnhub, metrics, logger)

	provider, err := auth.NewProvider(cfg.Auth, profiles, sessions, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth provider", zap.Error(err))
	}
	logger.Info("auth provider selected", zap.String("provider", provider.Name()))

	server := api.NewServer(provider, adminSvc, agentSvc, dashboardSvc, plaid, finnhub, metrics, hub, logger)

	go startMetricsServer(cfg.Server.MetricsPort, metrics, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting API server", zap.Int("port", cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("API server error", zap.Error(err))
	}
}

func startMetricsServer(port int, metrics *monitoring.Collector, logger *zap.Logger) {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	logger.Info("starting metrics server", zap.Int("port", port))
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}
