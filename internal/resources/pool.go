package resources

import (
	"context"

	"github.com/pgElephant/RetailMCP/internal/database"
)

// PoolResource reports connection pool statistics
type PoolResource struct {
	stats func() *database.PoolStats
}

// NewPoolResource creates a new pool statistics resource
func NewPoolResource(stats func() *database.PoolStats) *PoolResource {
	return &PoolResource{stats: stats}
}

// URI returns the resource URI
func (r *PoolResource) URI() string {
	return "retail://pool"
}

// Name returns the resource name
func (r *PoolResource) Name() string {
	return "Connection Pool"
}

// Description returns the resource description
func (r *PoolResource) Description() string {
	return "Connection pool usage counters"
}

// MimeType returns the MIME type
func (r *PoolResource) MimeType() string {
	return "application/json"
}

// GetContent returns the pool statistics
func (r *PoolResource) GetContent(context.Context) (interface{}, error) {
	stats := r.stats()
	if stats == nil {
		return nil, database.ErrPoolUnavailable
	}
	return stats, nil
}
