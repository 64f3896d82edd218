package server

import (
	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/tools"
)

var (
	salesAnalysisTools = map[string]bool{
		"get_multiple_table_schemas": true,
		"execute_sales_query":        true,
	}
	semanticSearchTools = map[string]bool{
		"semantic_search_products": true,
		"get_products_by_name":     true,
	}
)

// removeDisabledTools unregisters every tool a feature flag switches off, so
// it is neither listed nor callable.
func removeDisabledTools(registry *tools.ToolRegistry, features *config.FeaturesConfig, logger *logging.Logger) {
	for _, name := range registry.GetAllToolNames() {
		if !toolEnabled(name, features) && registry.Unregister(name) {
			logger.Info("Tool disabled by feature flag", map[string]interface{}{"tool": name})
		}
	}
}

// toolEnabled reports whether a feature flag switches the tool off. A feature
// with no configuration block stays on.
func toolEnabled(toolName string, features *config.FeaturesConfig) bool {
	switch {
	case salesAnalysisTools[toolName]:
		return features.SalesAnalysis == nil || features.SalesAnalysis.Enabled
	case semanticSearchTools[toolName]:
		return features.SemanticSearch == nil || features.SemanticSearch.Enabled
	}
	return true
}
