package config

import "time"

// ServerConfig is the root configuration structure
type ServerConfig struct {
	Database  DatabaseConfig  `json:"database"`
	Server    ServerSettings  `json:"server"`
	Logging   LoggingConfig   `json:"logging"`
	Security  SecurityConfig  `json:"security"`
	Embedding EmbeddingConfig `json:"embedding"`
	Features  FeaturesConfig  `json:"features"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	ConnectionString *string     `json:"connectionString,omitempty"`
	Host             *string     `json:"host,omitempty"`
	Port             *int        `json:"port,omitempty"`
	Database         *string     `json:"database,omitempty"`
	User             *string     `json:"user,omitempty"`
	Password         *string     `json:"password,omitempty"`
	Pool             *PoolConfig `json:"pool,omitempty"`
	SSL              interface{} `json:"ssl,omitempty"` // bool or "disable"/"require"/...
}

// PoolConfig holds connection pool settings
type PoolConfig struct {
	Min                     *int    `json:"min,omitempty"`
	Max                     *int    `json:"max,omitempty"`
	IdleTimeoutMillis       *int    `json:"idleTimeoutMillis,omitempty"`
	ConnectionTimeoutMillis *int    `json:"connectionTimeoutMillis,omitempty"`
	StatementTimeoutMillis  *int    `json:"statementTimeoutMillis,omitempty"`
	WorkMem                 *string `json:"workMem,omitempty"`
	JIT                     *bool   `json:"jit,omitempty"`
}

// ServerSettings holds server configuration
type ServerSettings struct {
	Name              *string `json:"name,omitempty"`
	Version           *string `json:"version,omitempty"`
	Timeout           *int    `json:"timeout,omitempty"`
	MaxRequestSize    *int    `json:"maxRequestSize,omitempty"`
	EnableMetrics     *bool   `json:"enableMetrics,omitempty"`
	EnableHealthCheck *bool   `json:"enableHealthCheck,omitempty"`
	HTTPAddr          *string `json:"httpAddr,omitempty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level                 string  `json:"level"`
	Format                string  `json:"format"`
	Output                *string `json:"output,omitempty"`
	EnableRequestLogging  *bool   `json:"enableRequestLogging,omitempty"`
	EnableResponseLogging *bool   `json:"enableResponseLogging,omitempty"`
	EnableErrorStack      *bool   `json:"enableErrorStack,omitempty"`
}

// SecurityConfig controls how the row-level security identity is resolved
type SecurityConfig struct {
	DefaultUserID *string `json:"defaultUserId,omitempty"`
	UserIDHeader  *string `json:"userIdHeader,omitempty"`
	// FixedUserID pins every request to one identity (stdio deployments).
	FixedUserID *string `json:"fixedUserId,omitempty"`
}

// EmbeddingConfig configures the embedding service used by semantic search
type EmbeddingConfig struct {
	Provider      *string `json:"provider,omitempty"` // azure or openai
	Endpoint      *string `json:"endpoint,omitempty"`
	APIKey        *string `json:"apiKey,omitempty"`
	APIVersion    *string `json:"apiVersion,omitempty"`
	Model         *string `json:"model,omitempty"`
	Deployment    *string `json:"deployment,omitempty"`
	Dimensions    *int    `json:"dimensions,omitempty"`
	TimeoutMillis *int    `json:"timeoutMillis,omitempty"`
}

// FeaturesConfig holds feature flags and settings
type FeaturesConfig struct {
	SalesAnalysis  *SalesAnalysisFeatureConfig  `json:"salesAnalysis,omitempty"`
	SemanticSearch *SemanticSearchFeatureConfig `json:"semanticSearch,omitempty"`
}

// SalesAnalysisFeatureConfig holds schema and SQL tool settings
type SalesAnalysisFeatureConfig struct {
	Enabled bool `json:"enabled"`
}

// SemanticSearchFeatureConfig holds product search settings
type SemanticSearchFeatureConfig struct {
	Enabled          bool     `json:"enabled"`
	DefaultLimit     *int     `json:"defaultLimit,omitempty"`
	DefaultThreshold *float64 `json:"defaultThreshold,omitempty"`
}

// Helper methods for getting values with defaults

func (c *DatabaseConfig) GetHost() string {
	if c.Host != nil {
		return *c.Host
	}
	return "localhost"
}

func (c *DatabaseConfig) GetPort() int {
	if c.Port != nil {
		return *c.Port
	}
	return 5432
}

func (c *DatabaseConfig) GetDatabase() string {
	if c.Database != nil {
		return *c.Database
	}
	return "zava"
}

func (c *DatabaseConfig) GetUser() string {
	if c.User != nil {
		return *c.User
	}
	return "store_manager"
}

func (c *DatabaseConfig) GetPool() *PoolConfig {
	if c.Pool != nil {
		return c.Pool
	}
	return &PoolConfig{}
}

func (c *PoolConfig) GetMin() int {
	if c.Min != nil {
		return *c.Min
	}
	return 1
}

func (c *PoolConfig) GetMax() int {
	if c.Max != nil {
		return *c.Max
	}
	return 3
}

func (c *PoolConfig) GetIdleTimeout() time.Duration {
	if c.IdleTimeoutMillis != nil {
		return time.Duration(*c.IdleTimeoutMillis) * time.Millisecond
	}
	return 30 * time.Second
}

// GetConnectionTimeout is how long Acquire waits for a free connection.
func (c *PoolConfig) GetConnectionTimeout() time.Duration {
	if c.ConnectionTimeoutMillis != nil {
		return time.Duration(*c.ConnectionTimeoutMillis) * time.Millisecond
	}
	return 10 * time.Second
}

func (c *PoolConfig) GetStatementTimeout() time.Duration {
	if c.StatementTimeoutMillis != nil {
		return time.Duration(*c.StatementTimeoutMillis) * time.Millisecond
	}
	return 30 * time.Second
}

func (c *PoolConfig) GetWorkMem() string {
	if c.WorkMem != nil {
		return *c.WorkMem
	}
	return "4MB"
}

func (c *PoolConfig) GetJIT() bool {
	if c.JIT != nil {
		return *c.JIT
	}
	return false
}

func (s *ServerSettings) GetName() string {
	if s.Name != nil {
		return *s.Name
	}
	return "retail-mcp-server"
}

func (s *ServerSettings) GetVersion() string {
	if s.Version != nil {
		return *s.Version
	}
	return "1.0.0"
}

func (s *ServerSettings) GetTimeout() time.Duration {
	if s.Timeout != nil {
		return time.Duration(*s.Timeout) * time.Millisecond
	}
	return 60 * time.Second
}

func (s *ServerSettings) GetMaxRequestSize() int64 {
	if s.MaxRequestSize != nil {
		return int64(*s.MaxRequestSize)
	}
	return 10 << 20
}

func (s *ServerSettings) GetHTTPAddr() string {
	if s.HTTPAddr != nil {
		return *s.HTTPAddr
	}
	return "0.0.0.0:8000"
}

func (c *SecurityConfig) GetDefaultUserID() string {
	if c.DefaultUserID != nil {
		return *c.DefaultUserID
	}
	return "00000000-0000-0000-0000-000000000000"
}

func (c *SecurityConfig) GetUserIDHeader() string {
	if c.UserIDHeader != nil {
		return *c.UserIDHeader
	}
	return "x-rls-user-id"
}

func (c *EmbeddingConfig) GetProvider() string {
	if c.Provider != nil {
		return *c.Provider
	}
	return "azure"
}

func (c *EmbeddingConfig) GetAPIVersion() string {
	if c.APIVersion != nil {
		return *c.APIVersion
	}
	return "2024-02-01"
}

func (c *EmbeddingConfig) GetModel() string {
	if c.Model != nil {
		return *c.Model
	}
	return "text-embedding-3-small"
}

// GetDeployment falls back to the model name, which is how Azure deployments are usually named.
func (c *EmbeddingConfig) GetDeployment() string {
	if c.Deployment != nil && *c.Deployment != "" {
		return *c.Deployment
	}
	return c.GetModel()
}

func (c *EmbeddingConfig) GetTimeout() time.Duration {
	if c.TimeoutMillis != nil {
		return time.Duration(*c.TimeoutMillis) * time.Millisecond
	}
	return 30 * time.Second
}

func (c *SemanticSearchFeatureConfig) GetDefaultLimit() int {
	if c != nil && c.DefaultLimit != nil {
		return *c.DefaultLimit
	}
	return 10
}

func (c *SemanticSearchFeatureConfig) GetDefaultThreshold() float64 {
	if c != nil && c.DefaultThreshold != nil {
		return *c.DefaultThreshold
	}
	return 50.0
}
