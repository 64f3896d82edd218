package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ConfigLoader handles loading configuration from multiple sources
type ConfigLoader struct {
	getenv func(string) string
}

// NewConfigLoader creates a new config loader
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{getenv: os.Getenv}
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *ServerConfig {
	min := 1
	max := 3
	idleTimeout := 30000
	connTimeout := 10000
	statementTimeout := 30000
	workMem := "4MB"
	jit := false
	timeout := 60000
	maxRequestSize := 10485760
	output := "stderr"
	enableReqLog := true
	enableRespLog := false
	enableErrorStack := false
	enableMetrics := true
	enableHealthCheck := true
	defaultLimit := 10
	defaultThreshold := 50.0

	return &ServerConfig{
		Database: DatabaseConfig{
			Host:     stringPtr("localhost"),
			Port:     intPtr(5432),
			Database: stringPtr("zava"),
			User:     stringPtr("store_manager"),
			Pool: &PoolConfig{
				Min:                     &min,
				Max:                     &max,
				IdleTimeoutMillis:       &idleTimeout,
				ConnectionTimeoutMillis: &connTimeout,
				StatementTimeoutMillis:  &statementTimeout,
				WorkMem:                 &workMem,
				JIT:                     &jit,
			},
			SSL: false,
		},
		Server: ServerSettings{
			Name:              stringPtr("retail-mcp-server"),
			Version:           stringPtr("1.0.0"),
			Timeout:           &timeout,
			MaxRequestSize:    &maxRequestSize,
			EnableMetrics:     &enableMetrics,
			EnableHealthCheck: &enableHealthCheck,
			HTTPAddr:          stringPtr("0.0.0.0:8000"),
		},
		Logging: LoggingConfig{
			Level:                 "info",
			Format:                "text",
			Output:                &output,
			EnableRequestLogging:  &enableReqLog,
			EnableResponseLogging: &enableRespLog,
			EnableErrorStack:      &enableErrorStack,
		},
		Security: SecurityConfig{
			DefaultUserID: stringPtr("00000000-0000-0000-0000-000000000000"),
			UserIDHeader:  stringPtr("x-rls-user-id"),
		},
		Embedding: EmbeddingConfig{
			Provider:   stringPtr("azure"),
			APIVersion: stringPtr("2024-02-01"),
			Model:      stringPtr("text-embedding-3-small"),
		},
		Features: FeaturesConfig{
			SalesAnalysis: &SalesAnalysisFeatureConfig{Enabled: true},
			SemanticSearch: &SemanticSearchFeatureConfig{
				Enabled:          true,
				DefaultLimit:     &defaultLimit,
				DefaultThreshold: &defaultThreshold,
			},
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func (l *ConfigLoader) LoadFromFile(configPath string) (*ServerConfig, error) {
	possiblePaths := []string{}

	if configPath != "" {
		possiblePaths = append(possiblePaths, configPath)
	}

	if envPath := l.getenv("RETAIL_MCP_CONFIG"); envPath != "" {
		possiblePaths = append(possiblePaths, envPath)
	}

	cwd, _ := os.Getwd()
	possiblePaths = append(possiblePaths, filepath.Join(cwd, "mcp-config.json"))

	if home, err := os.UserHomeDir(); err == nil {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".retail-mcp", "mcp-config.json"),
		)
	}

	for _, path := range possiblePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if path == configPath {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			continue
		}
		// Unmarshal over defaults so a partial file keeps the remaining settings.
		config := GetDefaultConfig()
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
		}
		return config, nil
	}

	return nil, nil // No config file found
}

// MergeWithEnv merges configuration with environment variables
func (l *ConfigLoader) MergeWithEnv(config *ServerConfig) *ServerConfig {
	merged := *config
	pool := *merged.Database.GetPool()
	merged.Database.Pool = &pool

	// Database config from env
	if connStr := l.getenv("POSTGRES_URL"); connStr != "" {
		merged.Database.ConnectionString = &connStr
	}
	if host := l.getenv("RETAIL_MCP_DB_HOST"); host != "" {
		merged.Database.Host = &host
	}
	if portStr := l.getenv("RETAIL_MCP_DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			merged.Database.Port = &port
		}
	}
	if db := l.getenv("RETAIL_MCP_DB_NAME"); db != "" {
		merged.Database.Database = &db
	}
	if user := l.getenv("RETAIL_MCP_DB_USER"); user != "" {
		merged.Database.User = &user
	}
	if pass := l.getenv("RETAIL_MCP_DB_PASSWORD"); pass != "" {
		merged.Database.Password = &pass
	}

	// Pool config from env
	if v, ok := l.envInt("RETAIL_MCP_POOL_MIN"); ok {
		pool.Min = &v
	}
	if v, ok := l.envInt("RETAIL_MCP_POOL_MAX"); ok {
		pool.Max = &v
	}
	if v, ok := l.envMillis("RETAIL_MCP_STATEMENT_TIMEOUT"); ok {
		pool.StatementTimeoutMillis = &v
	}
	if v, ok := l.envMillis("RETAIL_MCP_ACQUIRE_TIMEOUT"); ok {
		pool.ConnectionTimeoutMillis = &v
	}
	if workMem := l.getenv("RETAIL_MCP_WORK_MEM"); workMem != "" {
		pool.WorkMem = &workMem
	}

	// Server config from env
	if addr := l.getenv("RETAIL_MCP_HTTP_ADDR"); addr != "" {
		merged.Server.HTTPAddr = &addr
	}

	// Logging config from env
	if level := l.getenv("RETAIL_MCP_LOG_LEVEL"); level != "" {
		merged.Logging.Level = level
	}
	if format := l.getenv("RETAIL_MCP_LOG_FORMAT"); format != "" {
		merged.Logging.Format = format
	}
	if output := l.getenv("RETAIL_MCP_LOG_OUTPUT"); output != "" {
		merged.Logging.Output = &output
	}

	// Embedding service from env
	if endpoint := l.getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		merged.Embedding.Endpoint = &endpoint
	}
	if key := l.getenv("AZURE_OPENAI_API_KEY"); key != "" {
		merged.Embedding.APIKey = &key
	}
	if version := l.getenv("AZURE_OPENAI_API_VERSION"); version != "" {
		merged.Embedding.APIVersion = &version
	}
	if model := l.getenv("EMBEDDING_MODEL_NAME"); model != "" {
		merged.Embedding.Model = &model
	}
	if deployment := l.getenv("EMBEDDING_DEPLOYMENT_NAME"); deployment != "" {
		merged.Embedding.Deployment = &deployment
	}

	return &merged
}

func (l *ConfigLoader) envInt(key string) (int, bool) {
	value := l.getenv(key)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// envMillis accepts Go durations ("30s") or bare milliseconds ("30000").
func (l *ConfigLoader) envMillis(key string) (int, bool) {
	value := l.getenv(key)
	if value == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(value); err == nil {
		return int(d / time.Millisecond), true
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	return 0, false
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
