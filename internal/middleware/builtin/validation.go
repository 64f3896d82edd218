package builtin

import (
	"context"

	"github.com/pgElephant/RetailMCP/internal/middleware"
)

// ValidationMiddleware validates requests
type ValidationMiddleware struct{}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{}
}

// Name returns the middleware name
func (m *ValidationMiddleware) Name() string {
	return "validation"
}

// Order returns the execution order
func (m *ValidationMiddleware) Order() int {
	return 1
}

// Enabled returns whether the middleware is enabled
func (m *ValidationMiddleware) Enabled() bool {
	return true
}

// Execute executes the middleware
func (m *ValidationMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	if req.Method == "" {
		return middleware.TextResponse("Error: Missing method in request", true), nil
	}

	if req.Method == "tools/call" {
		if req.ToolName() == "" {
			return middleware.TextResponse("Error: Missing tool name in request", true), nil
		}
		if args, present := req.Params["arguments"]; present && args != nil {
			if _, ok := args.(map[string]interface{}); !ok {
				return middleware.TextResponse("Error: Tool arguments must be an object", true), nil
			}
		}
	}

	return next(ctx)
}
