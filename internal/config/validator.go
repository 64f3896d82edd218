package config

import (
	"fmt"
	"strings"
)

// ConfigValidator validates configuration
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates the complete server configuration
func (v *ConfigValidator) Validate(config *ServerConfig) (bool, []string) {
	var errors []string

	errors = append(errors, v.validateDatabase(&config.Database)...)
	errors = append(errors, v.validateServer(&config.Server)...)
	errors = append(errors, v.validateLogging(&config.Logging)...)
	errors = append(errors, v.validateEmbedding(&config.Embedding)...)
	errors = append(errors, v.validateFeatures(&config.Features)...)

	return len(errors) == 0, errors
}

func (v *ConfigValidator) validateDatabase(config *DatabaseConfig) []string {
	var errors []string

	if config.ConnectionString == nil && config.Host == nil {
		errors = append(errors, "Database configuration must have either connectionString or host")
	}

	if config.Port != nil && (*config.Port < 1 || *config.Port > 65535) {
		errors = append(errors, "Database port must be between 1 and 65535")
	}

	if config.Pool != nil {
		if config.Pool.Min != nil && *config.Pool.Min < 0 {
			errors = append(errors, "Pool min connections must be >= 0")
		}
		if config.Pool.Max != nil && *config.Pool.Max < 1 {
			errors = append(errors, "Pool max connections must be >= 1")
		}
		if config.Pool.Min != nil && config.Pool.Max != nil && *config.Pool.Min > *config.Pool.Max {
			errors = append(errors, "Pool min connections must be <= max connections")
		}
		if config.Pool.IdleTimeoutMillis != nil && *config.Pool.IdleTimeoutMillis < 0 {
			errors = append(errors, "Pool idleTimeoutMillis must be >= 0")
		}
		if config.Pool.ConnectionTimeoutMillis != nil && *config.Pool.ConnectionTimeoutMillis <= 0 {
			errors = append(errors, "Pool connectionTimeoutMillis must be > 0")
		}
		if config.Pool.StatementTimeoutMillis != nil && *config.Pool.StatementTimeoutMillis < 0 {
			errors = append(errors, "Pool statementTimeoutMillis must be >= 0")
		}
		if config.Pool.WorkMem != nil && strings.TrimSpace(*config.Pool.WorkMem) == "" {
			errors = append(errors, "Pool workMem must not be empty")
		}
	}

	return errors
}

func (v *ConfigValidator) validateServer(config *ServerSettings) []string {
	var errors []string

	if config.Timeout != nil && *config.Timeout < 0 {
		errors = append(errors, "Server timeout must be >= 0")
	}

	if config.MaxRequestSize != nil && *config.MaxRequestSize < 0 {
		errors = append(errors, "Server maxRequestSize must be >= 0")
	}

	return errors
}

func (v *ConfigValidator) validateLogging(config *LoggingConfig) []string {
	var errors []string

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		errors = append(errors, fmt.Sprintf("Logging level must be one of: %v", validLevels))
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, config.Format) {
		errors = append(errors, fmt.Sprintf("Logging format must be one of: %v", validFormats))
	}

	return errors
}

func (v *ConfigValidator) validateEmbedding(config *EmbeddingConfig) []string {
	var errors []string

	validProviders := []string{"azure", "openai"}
	if !contains(validProviders, config.GetProvider()) {
		errors = append(errors, fmt.Sprintf("Embedding provider must be one of: %v", validProviders))
	}
	if config.Dimensions != nil && *config.Dimensions < 1 {
		errors = append(errors, "Embedding dimensions must be >= 1")
	}
	if config.TimeoutMillis != nil && *config.TimeoutMillis < 0 {
		errors = append(errors, "Embedding timeoutMillis must be >= 0")
	}

	return errors
}

func (v *ConfigValidator) validateFeatures(config *FeaturesConfig) []string {
	var errors []string

	if config.SemanticSearch != nil && config.SemanticSearch.Enabled {
		if config.SemanticSearch.DefaultLimit != nil && *config.SemanticSearch.DefaultLimit < 1 {
			errors = append(errors, "Semantic search defaultLimit must be >= 1")
		}
		if t := config.SemanticSearch.DefaultThreshold; t != nil && (*t < 0 || *t > 100) {
			errors = append(errors, "Semantic search defaultThreshold must be between 0 and 100")
		}
	}

	return errors
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
