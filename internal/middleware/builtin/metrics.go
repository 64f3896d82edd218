package builtin

import (
	"context"
	"time"

	"github.com/pgElephant/RetailMCP/internal/metrics"
	"github.com/pgElephant/RetailMCP/internal/middleware"
)

// MetricsMiddleware records tool call counts and latency
type MetricsMiddleware struct {
	enabled bool
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(enabled bool) *MetricsMiddleware {
	return &MetricsMiddleware{enabled: enabled}
}

// Name returns the middleware name
func (m *MetricsMiddleware) Name() string {
	return "metrics"
}

// Order returns the execution order
func (m *MetricsMiddleware) Order() int {
	return 4
}

// Enabled returns whether the middleware is enabled
func (m *MetricsMiddleware) Enabled() bool {
	return m.enabled
}

// Execute executes the middleware
func (m *MetricsMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	start := time.Now()
	resp, err := next(ctx)

	status := "success"
	switch {
	case err != nil, resp == nil, resp.IsError:
		status = "error"
	case resp.Metadata["query_failed"] == true:
		status = "query_failed"
		metrics.RecordQueryFailure(req.ToolName())
	}
	metrics.RecordToolExecution(req.ToolName(), status, time.Since(start))

	return resp, err
}
