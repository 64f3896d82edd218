package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/embedding"
	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/results"
	"github.com/pgElephant/RetailMCP/internal/retail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manager = "2f6b8d44-5c2a-4f0e-9b1e-3d7a9c1e0f52"

type call struct {
	method    string
	arg       interface{}
	maxRows   int
	threshold float64
	userID    string
}

type fakeStore struct {
	calls []call
	env   *results.Envelope
	text  string
	err   error
}

func (s *fakeStore) ProductsByName(_ context.Context, term string, maxRows int, rlsUserID string) (*results.Envelope, error) {
	s.calls = append(s.calls, call{method: "name", arg: term, maxRows: maxRows, userID: rlsUserID})
	return s.env, s.err
}

func (s *fakeStore) ProductsBySimilarity(_ context.Context, vector []float32, maxRows int, threshold float64, rlsUserID string) (*results.Envelope, error) {
	s.calls = append(s.calls, call{method: "similarity", arg: vector, maxRows: maxRows, threshold: threshold, userID: rlsUserID})
	return s.env, s.err
}

func (s *fakeStore) ExecuteQuery(_ context.Context, sql string, rlsUserID string) (*results.Envelope, error) {
	s.calls = append(s.calls, call{method: "query", arg: sql, userID: rlsUserID})
	return s.env, s.err
}

func (s *fakeStore) TableSchemas(_ context.Context, names []string, rlsUserID string) (string, error) {
	s.calls = append(s.calls, call{method: "schemas", arg: names, userID: rlsUserID})
	return s.text, s.err
}

type fakeEmbedder struct {
	available bool
	vector    []float32
	err       error
}

func (e *fakeEmbedder) Available() bool   { return e.available }
func (e *fakeEmbedder) ModelName() string { return "test" }

func (e *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return e.vector, e.err
}

var (
	resolver = identity.FixedResolver{UserID: manager}
	nop      = logging.NewNopLogger()
)

func productEnvelope() *results.Envelope {
	return results.Success([]results.ProductRow{
		{ProductName: "Interior Paint", TypeName: "Paint", CategoryName: "Paint & Finishes", Price: "39.99", TotalStock: 120},
	}, "")
}

func TestTableSchemasTool(t *testing.T) {
	store := &fakeStore{text: "Table: retail.orders\nColumns:\n  order_id integer NOT NULL"}
	tool := NewTableSchemasTool(store, resolver, nop)

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"table_names": []interface{}{"retail.orders"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, store.text, result.Text)
	require.Len(t, store.calls, 1)
	assert.Equal(t, []string{"retail.orders"}, store.calls[0].arg)
	assert.Equal(t, manager, store.calls[0].userID)
}

func TestTableSchemasToolValidation(t *testing.T) {
	store := &fakeStore{}
	tool := NewTableSchemasTool(store, resolver, nop)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"table_names": []interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, CodeValidation, result.Error.Code)
	assert.Equal(t, "table_names parameter is required and cannot be empty", result.Error.Message)

	result, err = tool.Execute(context.Background(), map[string]interface{}{
		"table_names": []interface{}{"retail.customers", "retail.bogus"},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error.Message, `Invalid table names: ["retail.bogus"]`)
	assert.Equal(t, []string{"retail.bogus"}, result.Error.Details.(map[string]interface{})["invalid"])
	assert.Empty(t, store.calls)
}

func TestSalesQueryTool(t *testing.T) {
	store := &fakeStore{env: results.Failure(`PostgreSQL query failed: ERROR: syntax error at or near "SELEC" (SQLSTATE 42601)`)}
	tool := NewSalesQueryTool(store, resolver, nop)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"postgresql_query": "SELEC 1"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Text, "Query Results:\n{"))
	assert.Contains(t, result.Text, `"row_count": 0`)
	assert.Equal(t, true, result.Metadata["query_failed"])

	result, err = tool.Execute(context.Background(), map[string]interface{}{"postgresql_query": "   "})
	require.NoError(t, err)
	assert.Equal(t, "postgresql_query parameter is required", result.Error.Message)
}

func TestStoreFailureCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: database.ErrPoolUnavailable, code: CodePoolUnavailable},
		{err: errors.Join(database.ErrPoolExhausted, errors.New("waited 10s")), code: CodePoolExhausted},
		{err: &database.SecurityBindError{UserID: manager, Err: errors.New("conn reset")}, code: CodeSecurityContext},
		{err: &retail.ValidationError{Message: "bad"}, code: CodeValidation},
		{err: database.NewQueryError(errors.New("permission denied for table orders")), code: CodeExecution},
	}
	for _, tt := range tests {
		tool := NewSalesQueryTool(&fakeStore{err: tt.err}, resolver, nop)
		result, err := tool.Execute(context.Background(), map[string]interface{}{"postgresql_query": "SELECT 1"})
		require.NoError(t, err)
		assert.Equal(t, tt.code, result.Error.Code, "%v", tt.err)
	}
}

func TestProductsByNameTool(t *testing.T) {
	store := &fakeStore{env: productEnvelope()}
	tool := NewProductsByNameTool(store, resolver, nop)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"product_name": "paint"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Text, "Query Results:\n"))
	assert.Contains(t, result.Text, `"price": "39.99"`)
	assert.Equal(t, 10, store.calls[0].maxRows)

	_, err = tool.Execute(context.Background(), map[string]interface{}{"product_name": "paint", "max_rows": float64(250)})
	require.NoError(t, err)
	assert.Equal(t, database.MaxRows, store.calls[1].maxRows)

	result, err = tool.Execute(context.Background(), map[string]interface{}{"product_name": "paint", "max_rows": 2.5})
	require.NoError(t, err)
	assert.Equal(t, CodeValidation, result.Error.Code)
	assert.Len(t, store.calls, 2)
}

func TestRowLimitIsBoundedBeforeConversion(t *testing.T) {
	store := &fakeStore{env: productEnvelope()}
	embedder := &fakeEmbedder{available: true, vector: []float32{0.1}}
	byName := NewProductsByNameTool(store, resolver, nop)
	semantic := NewSemanticSearchTool(store, embedder, resolver, nil, nop)

	tests := []struct {
		requested interface{}
		want      int
	}{
		{float64(1e19), database.MaxRows},
		{float64(1e300), database.MaxRows},
		{float64(100), database.MaxRows},
		{float64(99), 99},
		{float64(1), 1},
	}
	for _, tt := range tests {
		store.calls = nil
		_, err := byName.Execute(context.Background(), map[string]interface{}{"product_name": "paint", "max_rows": tt.requested})
		require.NoError(t, err)
		_, err = semantic.Execute(context.Background(), map[string]interface{}{"query_description": "paint", "max_rows": tt.requested})
		require.NoError(t, err)

		require.Len(t, store.calls, 2)
		for _, c := range store.calls {
			assert.Equal(t, tt.want, c.maxRows, "%s with max_rows %v", c.method, tt.requested)
			assert.Equal(t, tt.want, database.ClampLimit(c.maxRows))
		}
	}
}

func TestSemanticSearchTool(t *testing.T) {
	store := &fakeStore{env: results.Success([]results.SimilarityRow{}, "No products found with similarity threshold >= 50%. Try a lower threshold or different search query.")}
	embedder := &fakeEmbedder{available: true, vector: []float32{0.1, 0.2}}
	tool := NewSemanticSearchTool(store, embedder, resolver, nil, nop)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"query_description": "waterproof outdoor paint"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Text, "Semantic Search Results:\n"))
	require.Len(t, store.calls, 1)
	assert.Equal(t, []float32{0.1, 0.2}, store.calls[0].arg)
	assert.Equal(t, 10, store.calls[0].maxRows)
	assert.Equal(t, 50.0, store.calls[0].threshold)

	_, err = tool.Execute(context.Background(), map[string]interface{}{
		"query_description":    "brushes",
		"similarity_threshold": float64(75),
		"max_rows":             float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, store.calls[1].threshold)
	assert.Equal(t, 3, store.calls[1].maxRows)

	result, err = tool.Execute(context.Background(), map[string]interface{}{"query_description": "x", "similarity_threshold": float64(150)})
	require.NoError(t, err)
	assert.Equal(t, CodeValidation, result.Error.Code)
}

func TestSemanticSearchToolEmbeddingFailures(t *testing.T) {
	store := &fakeStore{}

	tool := NewSemanticSearchTool(store, &embedding.NullEmbedder{}, resolver, nil, nop)
	result, err := tool.Execute(context.Background(), map[string]interface{}{"query_description": "paint"})
	require.NoError(t, err)
	assert.Equal(t, CodeEmbeddingUnavailable, result.Error.Code)
	assert.Equal(t, "Semantic search is not available. Azure OpenAI endpoint not configured.", result.Error.Message)

	failing := &fakeEmbedder{available: true, err: embedding.ErrEmbeddingFailed}
	tool = NewSemanticSearchTool(store, failing, resolver, nil, nop)
	result, err = tool.Execute(context.Background(), map[string]interface{}{"query_description": "paint"})
	require.NoError(t, err)
	assert.Equal(t, CodeEmbeddingFailed, result.Error.Code)
	assert.Equal(t, "Failed to generate embedding for the query. Please try again.", result.Error.Message)

	assert.Empty(t, store.calls)
}

func TestCurrentDateTool(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	tool := NewCurrentDateTool(func() time.Time { return fixed })

	result, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Current UTC Date/Time: 2025-06-01T19:30:00Z", result.Text)
}

func TestValidateParams(t *testing.T) {
	b := NewBaseTool("t", "", nil)
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"n":    map[string]interface{}{"type": "integer", "minimum": 1},
			"tags": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required": []interface{}{"n"},
	}

	valid, errs := b.ValidateParams(map[string]interface{}{"n": float64(3), "tags": []interface{}{"a"}}, schema)
	assert.True(t, valid, errs)

	valid, errs = b.ValidateParams(map[string]interface{}{"n": float64(0), "tags": []interface{}{"a", 1.0}}, schema)
	assert.False(t, valid)
	assert.Len(t, errs, 2)

	valid, errs = b.ValidateParams(map[string]interface{}{}, schema)
	assert.False(t, valid)
	assert.Equal(t, []string{"Missing required parameter: n"}, errs)
}

func TestRegistry(t *testing.T) {
	registry := NewToolRegistry(nop)
	RegisterAllTools(registry, Dependencies{
		Store:    &fakeStore{},
		Embedder: &embedding.NullEmbedder{},
		Identity: resolver,
		Logger:   nop,
	})

	assert.Equal(t, []string{
		"execute_sales_query",
		"get_current_utc_date",
		"get_multiple_table_schemas",
		"get_products_by_name",
		"semantic_search_products",
	}, registry.GetAllToolNames())

	defs := registry.GetAllDefinitions()
	require.Len(t, defs, 5)
	assert.Equal(t, "execute_sales_query", defs[0].Name)
	assert.Equal(t, "object", defs[3].InputSchema["type"])

	assert.True(t, registry.Unregister("get_current_utc_date"))
	assert.Nil(t, registry.GetTool("get_current_utc_date"))
	assert.False(t, registry.Unregister("get_current_utc_date"))
	assert.Len(t, registry.GetAllDefinitions(), 4)
}
