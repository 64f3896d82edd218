package builtin

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/middleware"
)

// ErrorHandlingMiddleware turns errors and panics from the handler into
// error responses so every call gets text back.
type ErrorHandlingMiddleware struct {
	logger           *logging.Logger
	enableErrorStack bool
}

// NewErrorHandlingMiddleware creates a new error handling middleware
func NewErrorHandlingMiddleware(logger *logging.Logger, enableStack bool) *ErrorHandlingMiddleware {
	return &ErrorHandlingMiddleware{
		logger:           logger,
		enableErrorStack: enableStack,
	}
}

// Name returns the middleware name
func (m *ErrorHandlingMiddleware) Name() string {
	return "error-handling"
}

// Order returns the execution order
func (m *ErrorHandlingMiddleware) Order() int {
	return 100
}

// Enabled returns whether the middleware is enabled
func (m *ErrorHandlingMiddleware) Enabled() bool {
	return true
}

// Execute executes the middleware
func (m *ErrorHandlingMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (resp *middleware.MCPResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = m.respond(req, fmt.Errorf("panic: %v", r), string(debug.Stack())), nil
		}
	}()

	resp, err = next(ctx)
	if err != nil {
		return m.respond(req, err, ""), nil
	}
	return resp, nil
}

func (m *ErrorHandlingMiddleware) respond(req *middleware.MCPRequest, err error, stack string) *middleware.MCPResponse {
	m.logger.Error("Unhandled error", err, map[string]interface{}{
		"method": req.Method,
		"tool":   req.ToolName(),
	})

	errorInfo := map[string]interface{}{"message": err.Error()}
	text := "Error: " + err.Error()
	if m.enableErrorStack && stack != "" {
		errorInfo["stack"] = stack
		text += "\n" + stack
	}

	resp := middleware.TextResponse(text, true)
	resp.Metadata = map[string]interface{}{"error": errorInfo}
	return resp
}
