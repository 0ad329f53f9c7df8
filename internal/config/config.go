package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`        // Application name
	Environment string `yaml:"environment"` // Runtime environment (e.g. "development", "production")
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // Log level (e.g. "info", "debug", "warn", "error")
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address string `yaml:"address"` // Listen address (e.g. ":8080")
}

// MySQLConfig holds the MySQL connection settings.
type MySQLConfig struct {
	Address         string `yaml:"address"`         // Server address (host:port)
	Username        string `yaml:"username"`        // User name
	Password        string `yaml:"password"`        // Password
	Database        string `yaml:"database"`        // Database name
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // Max open connections
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // Max idle connections
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // Max connection lifetime in seconds
}

// DatabaseConfigs groups all database settings.
type DatabaseConfigs struct {
	MySQL MySQLConfig `yaml:"mysql"`
}

// OpenAIConfig holds the settings for an OpenAI-backed model. The credential
// itself never lives in the config file; APIKeyEnv names the environment
// variable the key is read from.
type OpenAIConfig struct {
	APIKeyEnv string `yaml:"apiKeyEnv"` // Environment variable holding the API key
	Model     string `yaml:"model"`     // Model identifier
}

// EmbeddingConfig configures the embedding provider. A single model field is
// used for both indexing and querying so the two can never diverge.
type EmbeddingConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
}

// LLMConfig configures the generative model used for answers.
type LLMConfig struct {
	OpenAI      OpenAIConfig `yaml:"openai"`
	Temperature float32      `yaml:"temperature"` // Sampling temperature
}

// SommelierConfig configures the RAG sommelier core.
type SommelierConfig struct {
	IndexPath string `yaml:"indexPath"` // Directory the vector index is persisted to
	TopK      int    `yaml:"topK"`      // Number of documents retrieved per query
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App       AppInfo         `yaml:"app"`
	Logger    LoggerConfig    `yaml:"logger"`
	Server    ServerConfig    `yaml:"server"`
	Databases DatabaseConfigs `yaml:"databases"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Sommelier SommelierConfig `yaml:"sommelier"`
}

// LoadConfig reads and parses the YAML configuration file at the given path
// and applies defaults for optional fields.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Embedding.OpenAI.APIKeyEnv == "" {
		cfg.Embedding.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.OpenAI.Model == "" {
		cfg.Embedding.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.LLM.OpenAI.APIKeyEnv == "" {
		cfg.LLM.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.Sommelier.IndexPath == "" {
		cfg.Sommelier.IndexPath = "data/sommelier_index"
	}
	if cfg.Sommelier.TopK == 0 {
		cfg.Sommelier.TopK = 10
	}
}
