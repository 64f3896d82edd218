package middleware

import (
	"context"
	"sort"
)

// Chain executes middleware in order
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain. Lower Order runs first (outermost).
func NewChain(middlewares []Middleware) *Chain {
	sorted := make([]Middleware, 0, len(middlewares))
	for _, mw := range middlewares {
		if mw.Enabled() {
			sorted = append(sorted, mw)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})

	return &Chain{middlewares: sorted}
}

// Execute executes the middleware chain
func (c *Chain) Execute(ctx context.Context, req *MCPRequest, finalHandler Handler) (*MCPResponse, error) {
	next := finalHandler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		mw, inner := c.middlewares[i], next
		next = func(ctx context.Context) (*MCPResponse, error) {
			return mw.Execute(ctx, req, inner)
		}
	}
	return next(ctx)
}

// Names lists the middleware in execution order
func (c *Chain) Names() []string {
	names := make([]string, len(c.middlewares))
	for i, mw := range c.middlewares {
		names[i] = mw.Name()
	}
	return names
}
