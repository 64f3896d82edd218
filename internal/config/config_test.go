package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	valid, errs := NewConfigValidator().Validate(cfg)
	assert.True(t, valid, errs)

	pool := cfg.Database.GetPool()
	assert.Equal(t, 1, pool.GetMin())
	assert.Equal(t, 3, pool.GetMax())
	assert.Equal(t, 30*time.Second, pool.GetStatementTimeout())
	assert.Equal(t, "4MB", pool.GetWorkMem())
	assert.False(t, pool.GetJIT())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", cfg.Security.GetDefaultUserID())
	assert.Equal(t, "x-rls-user-id", cfg.Security.GetUserIDHeader())
}

func TestMergeWithEnv(t *testing.T) {
	loader := &ConfigLoader{getenv: envFrom(map[string]string{
		"POSTGRES_URL":                 "postgresql://u:p@db:5432/zava",
		"RETAIL_MCP_POOL_MIN":          "2",
		"RETAIL_MCP_POOL_MAX":          "8",
		"RETAIL_MCP_STATEMENT_TIMEOUT": "5s",
		"RETAIL_MCP_ACQUIRE_TIMEOUT":   "1500",
		"RETAIL_MCP_WORK_MEM":          "16MB",
		"RETAIL_MCP_LOG_LEVEL":         "debug",
		"AZURE_OPENAI_ENDPOINT":        "https://example.openai.azure.com",
		"AZURE_OPENAI_API_KEY":         "secret",
		"EMBEDDING_MODEL_NAME":         "text-embedding-3-large",
	})}

	base := GetDefaultConfig()
	merged := loader.MergeWithEnv(base)

	require.NotNil(t, merged.Database.ConnectionString)
	assert.Equal(t, "postgresql://u:p@db:5432/zava", *merged.Database.ConnectionString)

	pool := merged.Database.GetPool()
	assert.Equal(t, 2, pool.GetMin())
	assert.Equal(t, 8, pool.GetMax())
	assert.Equal(t, 5*time.Second, pool.GetStatementTimeout())
	assert.Equal(t, 1500*time.Millisecond, pool.GetConnectionTimeout())
	assert.Equal(t, "16MB", pool.GetWorkMem())
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, "text-embedding-3-large", merged.Embedding.GetModel())
	assert.Equal(t, "text-embedding-3-large", merged.Embedding.GetDeployment())

	// the base pool settings are untouched
	assert.Equal(t, 3, base.Database.GetPool().GetMax())
}

func TestMergeWithEnvIgnoresMalformedNumbers(t *testing.T) {
	loader := &ConfigLoader{getenv: envFrom(map[string]string{
		"RETAIL_MCP_POOL_MAX":          "many",
		"RETAIL_MCP_STATEMENT_TIMEOUT": "soon",
	})}

	merged := loader.MergeWithEnv(GetDefaultConfig())
	assert.Equal(t, 3, merged.Database.GetPool().GetMax())
	assert.Equal(t, 30*time.Second, merged.Database.GetPool().GetStatementTimeout())
}

func TestValidatorReportsEveryProblem(t *testing.T) {
	cfg := GetDefaultConfig()
	min, max := 5, 2
	cfg.Database.Pool.Min = &min
	cfg.Database.Pool.Max = &max
	cfg.Logging.Level = "verbose"
	provider := "cohere"
	cfg.Embedding.Provider = &provider

	valid, errs := NewConfigValidator().Validate(cfg)
	assert.False(t, valid)
	assert.Contains(t, errs, "Pool min connections must be <= max connections")
	assert.Len(t, errs, 3)
}

func TestLoadFromFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database":{"pool":{"max":7}},"logging":{"level":"warn","format":"json"}}`), 0o600))

	loader := &ConfigLoader{getenv: envFrom(nil)}
	cfg, err := loader.LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 7, cfg.Database.GetPool().GetMax())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "zava", cfg.Database.GetDatabase())
}

func TestLoadFromFileMissingExplicitPath(t *testing.T) {
	loader := &ConfigLoader{getenv: envFrom(nil)}
	_, err := loader.LoadFromFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
