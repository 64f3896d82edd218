package tools

import (
	"context"
	"strings"

	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/retail"
)

// TableSchemasTool describes allow-listed retail tables
type TableSchemasTool struct {
	*BaseTool
	store    RetailStore
	identity identity.Resolver
	logger   *logging.Logger
}

// NewTableSchemasTool creates the get_multiple_table_schemas tool
func NewTableSchemasTool(store RetailStore, resolver identity.Resolver, logger *logging.Logger) *TableSchemasTool {
	names := make([]interface{}, len(retail.AllowedTables))
	for i, t := range retail.AllowedTables {
		names[i] = t
	}
	return &TableSchemasTool{
		BaseTool: NewBaseTool(
			"get_multiple_table_schemas",
			"Retrieve schemas for multiple tables. Use this tool only for schemas you have not already fetched during the conversation.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"table_names": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string", "enum": names},
						"description": "List of table names. Valid table names include " + quoteList(retail.AllowedTables) + ".",
					},
				},
				"required": []interface{}{"table_names"},
			},
		),
		store:    store,
		identity: resolver,
		logger:   logger,
	}
}

// Execute validates the names and fetches their schemas
func (t *TableSchemasTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	names := stringSliceParam(params, "table_names")
	// allow-list errors name every rejected entry, so they are reported
	// before the generic schema check
	if err := retail.ValidateTableNames(names); err != nil {
		return storeFailure("Failed to retrieve table schemas", err), nil
	}
	if valid, errs := t.ValidateParams(params, t.InputSchema()); !valid {
		return invalidParams(errs), nil
	}

	rlsUserID := t.identity.Resolve(ctx)
	t.logger.Info("Retrieving table schemas", map[string]interface{}{
		"tables":      names,
		"rls_user_id": rlsUserID,
	})

	text, err := t.store.TableSchemas(ctx, names, rlsUserID)
	if err != nil {
		return storeFailure("Failed to retrieve table schemas", err), nil
	}
	return Success(text, map[string]interface{}{"tables": len(names)}), nil
}

// SalesQueryTool runs caller-written SQL under the caller's identity
type SalesQueryTool struct {
	*BaseTool
	store    RetailStore
	identity identity.Resolver
	logger   *logging.Logger
}

// NewSalesQueryTool creates the execute_sales_query tool
func NewSalesQueryTool(store RetailStore, resolver identity.Resolver, logger *logging.Logger) *SalesQueryTool {
	return &SalesQueryTool{
		BaseTool: NewBaseTool(
			"execute_sales_query",
			"Always fetch table schemas first, use exact column names, join related tables for clarity, aggregate results, limit output to 20 rows, and explain that results are limited for readability.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"postgresql_query": map[string]interface{}{
						"type":        "string",
						"description": "A well-formed PostgreSQL query.",
					},
				},
				"required": []interface{}{"postgresql_query"},
			},
		),
		store:    store,
		identity: resolver,
		logger:   logger,
	}
}

// Execute runs the query and renders its envelope
func (t *SalesQueryTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	if valid, errs := t.ValidateParams(params, t.InputSchema()); !valid {
		return invalidParams(errs), nil
	}
	query := stringParam(params, "postgresql_query")
	if strings.TrimSpace(query) == "" {
		return Error("postgresql_query parameter is required", CodeValidation, nil), nil
	}

	rlsUserID := t.identity.Resolve(ctx)
	t.logger.Info("Executing sales query", map[string]interface{}{
		"query":       query,
		"rls_user_id": rlsUserID,
	})

	env, err := t.store.ExecuteQuery(ctx, query, rlsUserID)
	if err != nil {
		return storeFailure("Failed to execute database query", err), nil
	}
	return envelopeResult("Query Results:", env), nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
