package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/middleware"
)

// TimeoutMiddleware bounds how long a caller waits for a tool. The handler
// sees the cancelled context and still runs its cleanup.
type TimeoutMiddleware struct {
	timeout time.Duration
	logger  *logging.Logger
}

// NewTimeoutMiddleware creates a new timeout middleware
func NewTimeoutMiddleware(timeout time.Duration, logger *logging.Logger) *TimeoutMiddleware {
	return &TimeoutMiddleware{
		timeout: timeout,
		logger:  logger,
	}
}

// Name returns the middleware name
func (m *TimeoutMiddleware) Name() string {
	return "timeout"
}

// Order returns the execution order
func (m *TimeoutMiddleware) Order() int {
	return 3
}

// Enabled returns whether the middleware is enabled
func (m *TimeoutMiddleware) Enabled() bool {
	return m.timeout > 0
}

type outcome struct {
	resp *middleware.MCPResponse
	err  error
}

// Execute executes the middleware
func (m *TimeoutMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		resp, err := next(ctx)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case out := <-done:
		return out.resp, out.err
	case <-ctx.Done():
		m.logger.Warn("Request timeout", map[string]interface{}{
			"method":  req.Method,
			"tool":    req.ToolName(),
			"timeout": m.timeout.String(),
		})
		return middleware.TextResponse(fmt.Sprintf("Error: Request timeout after %v", m.timeout), true), nil
	}
}
