package server

import (
	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/middleware"
	"github.com/pgElephant/RetailMCP/internal/middleware/builtin"
)

// setupBuiltInMiddleware registers all built-in middleware
func setupBuiltInMiddleware(mgr *middleware.Manager, cfg *config.ServerConfig, logger *logging.Logger) {
	loggingCfg := cfg.Logging
	serverCfg := cfg.Server

	// Validation middleware (order: 1)
	mgr.Register(builtin.NewValidationMiddleware())

	// Logging middleware (order: 2)
	mgr.Register(builtin.NewLoggingMiddleware(
		logger,
		loggingCfg.EnableRequestLogging != nil && *loggingCfg.EnableRequestLogging,
		loggingCfg.EnableResponseLogging != nil && *loggingCfg.EnableResponseLogging,
	))

	// Timeout middleware (order: 3) - only if timeout is configured
	if serverCfg.Timeout != nil {
		mgr.Register(builtin.NewTimeoutMiddleware(serverCfg.GetTimeout(), logger))
	}

	// Metrics middleware (order: 4)
	mgr.Register(builtin.NewMetricsMiddleware(
		serverCfg.EnableMetrics == nil || *serverCfg.EnableMetrics,
	))

	// Error handling middleware (order: 100) - always last
	mgr.Register(builtin.NewErrorHandlingMiddleware(
		logger,
		loggingCfg.EnableErrorStack != nil && *loggingCfg.EnableErrorStack,
	))
}
