package tools

import (
	"time"

	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/embedding"
	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
)

// Dependencies are what the tools need at construction
type Dependencies struct {
	Store    RetailStore
	Embedder embedding.Embedder
	Identity identity.Resolver
	Features *config.FeaturesConfig
	Logger   *logging.Logger
	Now      func() time.Time
}

// RegisterAllTools registers all available tools with the registry
func RegisterAllTools(registry *ToolRegistry, deps Dependencies) {
	// Sales analysis tools
	registry.Register(NewTableSchemasTool(deps.Store, deps.Identity, deps.Logger))
	registry.Register(NewSalesQueryTool(deps.Store, deps.Identity, deps.Logger))

	// Product search tools
	registry.Register(NewProductsByNameTool(deps.Store, deps.Identity, deps.Logger))
	var semantic *config.SemanticSearchFeatureConfig
	if deps.Features != nil {
		semantic = deps.Features.SemanticSearch
	}
	registry.Register(NewSemanticSearchTool(deps.Store, deps.Embedder, deps.Identity, semantic, deps.Logger))

	registry.Register(NewCurrentDateTool(deps.Now))
}
