package tools

import (
	"context"

	"github.com/pgElephant/RetailMCP/internal/results"
)

// Tool is the interface that all tools must implement
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error)
}

// RetailStore runs the retail queries on behalf of a caller identity.
// *retail.Store implements it.
type RetailStore interface {
	ProductsByName(ctx context.Context, term string, maxRows int, rlsUserID string) (*results.Envelope, error)
	ProductsBySimilarity(ctx context.Context, embedding []float32, maxRows int, threshold float64, rlsUserID string) (*results.Envelope, error)
	ExecuteQuery(ctx context.Context, sql string, rlsUserID string) (*results.Envelope, error)
	TableSchemas(ctx context.Context, names []string, rlsUserID string) (string, error)
}
