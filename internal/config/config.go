package config

import (
	"fmt"
	"strings"
)

// ConfigManager manages configuration loading and access
type ConfigManager struct {
	config *ServerConfig
	loader *ConfigLoader
}

// NewConfigManager creates a new config manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{loader: NewConfigLoader()}
}

// Load loads configuration from file and environment
func (m *ConfigManager) Load(configPath string) (*ServerConfig, error) {
	if m.config != nil {
		return m.config, nil
	}

	fileConfig, err := m.loader.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	var baseConfig *ServerConfig
	if fileConfig != nil {
		baseConfig = fileConfig
	} else {
		baseConfig = GetDefaultConfig()
	}

	merged := m.loader.MergeWithEnv(baseConfig)

	validator := NewConfigValidator()
	valid, errors := validator.Validate(merged)
	if !valid {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errors, "; "))
	}

	m.config = merged
	return m.config, nil
}

// GetConfig returns the current configuration
func (m *ConfigManager) GetConfig() *ServerConfig {
	if m.config == nil {
		if _, err := m.Load(""); err != nil {
			return GetDefaultConfig()
		}
	}
	return m.config
}

// GetDatabaseConfig returns database configuration
func (m *ConfigManager) GetDatabaseConfig() *DatabaseConfig {
	return &m.GetConfig().Database
}

// GetServerSettings returns server settings
func (m *ConfigManager) GetServerSettings() *ServerSettings {
	return &m.GetConfig().Server
}

// GetLoggingConfig returns logging configuration
func (m *ConfigManager) GetLoggingConfig() *LoggingConfig {
	return &m.GetConfig().Logging
}

// GetSecurityConfig returns row-level security configuration
func (m *ConfigManager) GetSecurityConfig() *SecurityConfig {
	return &m.GetConfig().Security
}

// GetEmbeddingConfig returns embedding service configuration
func (m *ConfigManager) GetEmbeddingConfig() *EmbeddingConfig {
	return &m.GetConfig().Embedding
}

// GetFeaturesConfig returns features configuration
func (m *ConfigManager) GetFeaturesConfig() *FeaturesConfig {
	return &m.GetConfig().Features
}
