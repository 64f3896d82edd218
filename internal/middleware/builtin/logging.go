package builtin

import (
	"context"
	"time"

	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/middleware"
)

// LoggingMiddleware logs requests and responses
type LoggingMiddleware struct {
	logger                *logging.Logger
	enableRequestLogging  bool
	enableResponseLogging bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *logging.Logger, enableRequest, enableResponse bool) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:                logger,
		enableRequestLogging:  enableRequest,
		enableResponseLogging: enableResponse,
	}
}

// Name returns the middleware name
func (m *LoggingMiddleware) Name() string {
	return "logging"
}

// Order returns the execution order
func (m *LoggingMiddleware) Order() int {
	return 2
}

// Enabled returns whether the middleware is enabled
func (m *LoggingMiddleware) Enabled() bool {
	return m.enableRequestLogging || m.enableResponseLogging
}

// Execute executes the middleware
func (m *LoggingMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	start := time.Now()

	// arguments may carry raw SQL; only their names are logged
	if m.enableRequestLogging {
		m.logger.Info("Tool call", map[string]interface{}{
			"method":    req.Method,
			"tool":      req.ToolName(),
			"arguments": argumentNames(req),
			"metadata":  req.Metadata,
		})
	}

	resp, err := next(ctx)
	duration := time.Since(start)

	if err != nil {
		m.logger.Error("Tool call failed", err, map[string]interface{}{
			"method":      req.Method,
			"tool":        req.ToolName(),
			"duration_ms": duration.Milliseconds(),
		})
		return nil, err
	}

	if m.enableResponseLogging {
		m.logger.Info("Tool response", map[string]interface{}{
			"method":      req.Method,
			"tool":        req.ToolName(),
			"duration_ms": duration.Milliseconds(),
			"success":     !resp.IsError,
			"metadata":    resp.Metadata,
		})
	}

	return resp, nil
}

func argumentNames(req *middleware.MCPRequest) []string {
	args, _ := req.Params["arguments"].(map[string]interface{})
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	return names
}
