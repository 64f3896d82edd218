package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/pkg/mcp"
)

// Resolver decides which row-level security identity a request runs under.
type Resolver interface {
	Resolve(ctx context.Context) string
}

// FixedResolver pins every request to one identity. Used for stdio sessions.
type FixedResolver struct {
	UserID string
}

func (r FixedResolver) Resolve(context.Context) string {
	return r.UserID
}

// HeaderResolver reads the identity from the transport request headers.
// Missing or malformed values fall back to Default.
type HeaderResolver struct {
	Header  string
	Default string
	Logger  *logging.Logger
}

func (r HeaderResolver) Resolve(ctx context.Context) string {
	value := strings.TrimSpace(mcp.HeadersFromContext(ctx).Get(r.Header))
	if value == "" {
		return r.Default
	}
	id, err := uuid.Parse(value)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Debug("Ignoring malformed RLS user id header", map[string]interface{}{
				"header":  r.Header,
				"error":   err.Error(),
				"default": r.Default,
			})
		}
		return r.Default
	}
	return id.String()
}

// NewResolver builds the resolver for a deployment. A non-empty fixedUserID
// (from the command line) or a configured fixed id wins over headers. logger
// may be nil.
func NewResolver(cfg *config.SecurityConfig, fixedUserID string, logger *logging.Logger) Resolver {
	if fixedUserID == "" && cfg.FixedUserID != nil {
		fixedUserID = *cfg.FixedUserID
	}
	if fixedUserID != "" {
		return FixedResolver{UserID: fixedUserID}
	}
	return HeaderResolver{
		Header:  cfg.GetUserIDHeader(),
		Default: cfg.GetDefaultUserID(),
		Logger:  logger,
	}
}
