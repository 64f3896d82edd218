package tools

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/embedding"
	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/metrics"
)

// ProductsByNameTool searches products by name or description text
type ProductsByNameTool struct {
	*BaseTool
	store    RetailStore
	identity identity.Resolver
	logger   *logging.Logger
}

// NewProductsByNameTool creates the get_products_by_name tool
func NewProductsByNameTool(store RetailStore, resolver identity.Resolver, logger *logging.Logger) *ProductsByNameTool {
	return &ProductsByNameTool{
		BaseTool: NewBaseTool(
			"get_products_by_name",
			"Find products whose name or description contains the given text (case-insensitive). Returns type, category, price and total stock per product.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"product_name": map[string]interface{}{
						"type":        "string",
						"description": "Text to look for in product names and descriptions.",
					},
					"max_rows": map[string]interface{}{
						"type":        "integer",
						"default":     10,
						"minimum":     1,
						"description": "Maximum number of rows to return (capped at 100).",
					},
				},
				"required": []interface{}{"product_name"},
			},
		),
		store:    store,
		identity: resolver,
		logger:   logger,
	}
}

// Execute runs the name search
func (t *ProductsByNameTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	if valid, errs := t.ValidateParams(params, t.InputSchema()); !valid {
		return invalidParams(errs), nil
	}
	term := stringParam(params, "product_name")
	maxRows := limitParam(params, "max_rows", 10)

	env, err := t.store.ProductsByName(ctx, term, maxRows, t.identity.Resolve(ctx))
	if err != nil {
		return storeFailure("Failed to search products", err), nil
	}
	return envelopeResult("Query Results:", env), nil
}

const embeddingUnavailableMessage = "Semantic search is not available. Azure OpenAI endpoint not configured."

// SemanticSearchTool finds products by meaning using description embeddings
type SemanticSearchTool struct {
	*BaseTool
	store            RetailStore
	embedder         embedding.Embedder
	identity         identity.Resolver
	logger           *logging.Logger
	defaultLimit     int
	defaultThreshold float64
}

// NewSemanticSearchTool creates the semantic_search_products tool. Defaults
// for max_rows and similarity_threshold come from the feature settings.
func NewSemanticSearchTool(store RetailStore, embedder embedding.Embedder, resolver identity.Resolver, settings *config.SemanticSearchFeatureConfig, logger *logging.Logger) *SemanticSearchTool {
	return &SemanticSearchTool{
		BaseTool: NewBaseTool(
			"semantic_search_products",
			"Search for Zava products using semantic similarity based on a natural language description. Returns products ranked by similarity with a similarity_percent score.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query_description": map[string]interface{}{
						"type":        "string",
						"description": "Use Natural language description to find products that Zava sells.",
					},
					"max_rows": map[string]interface{}{
						"type":        "integer",
						"default":     settings.GetDefaultLimit(),
						"minimum":     1,
						"description": "Maximum number of rows to return.",
					},
					"similarity_threshold": map[string]interface{}{
						"type":        "number",
						"default":     settings.GetDefaultThreshold(),
						"minimum":     0,
						"maximum":     100,
						"description": "Minimum similarity threshold (0-100) to consider a product a match.",
					},
				},
				"required": []interface{}{"query_description"},
			},
		),
		store:            store,
		embedder:         embedder,
		identity:         resolver,
		logger:           logger,
		defaultLimit:     settings.GetDefaultLimit(),
		defaultThreshold: settings.GetDefaultThreshold(),
	}
}

// Execute embeds the description and runs the similarity search
func (t *SemanticSearchTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	if valid, errs := t.ValidateParams(params, t.InputSchema()); !valid {
		return invalidParams(errs), nil
	}
	description := stringParam(params, "query_description")
	if strings.TrimSpace(description) == "" {
		return Error("query_description parameter is required", CodeValidation, nil), nil
	}
	maxRows := limitParam(params, "max_rows", t.defaultLimit)
	threshold := floatParam(params, "similarity_threshold", t.defaultThreshold)

	if !t.embedder.Available() {
		return Error(embeddingUnavailableMessage, CodeEmbeddingUnavailable, nil), nil
	}

	start := time.Now()
	vector, err := t.embedder.Embed(ctx, description)
	if err != nil {
		metrics.RecordEmbeddingCall("error", time.Since(start))
		t.logger.Warn("Embedding generation failed", map[string]interface{}{"error": err.Error()})
		if errors.Is(err, embedding.ErrEmbeddingUnavailable) {
			return Error(embeddingUnavailableMessage, CodeEmbeddingUnavailable, nil), nil
		}
		return Error("Failed to generate embedding for the query. Please try again.", CodeEmbeddingFailed, nil), nil
	}
	metrics.RecordEmbeddingCall("success", time.Since(start))

	env, err := t.store.ProductsBySimilarity(ctx, vector, maxRows, threshold, t.identity.Resolve(ctx))
	if err != nil {
		return storeFailure("Failed to execute semantic search", err), nil
	}
	return envelopeResult("Semantic Search Results:", env), nil
}

// CurrentDateTool reports the current UTC time
type CurrentDateTool struct {
	*BaseTool
	now func() time.Time
}

// NewCurrentDateTool creates the get_current_utc_date tool
func NewCurrentDateTool(now func() time.Time) *CurrentDateTool {
	if now == nil {
		now = time.Now
	}
	return &CurrentDateTool{
		BaseTool: NewBaseTool(
			"get_current_utc_date",
			"Get the current UTC date and time in ISO format. Useful for date-based queries, filtering recent data, or understanding the current context for time-sensitive analysis.",
			map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		),
		now: now,
	}
}

// Execute returns the time
func (t *CurrentDateTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	return Success("Current UTC Date/Time: "+t.now().UTC().Format(time.RFC3339Nano), nil), nil
}
