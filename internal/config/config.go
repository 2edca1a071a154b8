// Package config loads the service configuration from a JSON file with
// ${ENV_VAR} expansion for secrets.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// Config represents the service configuration
type Config struct {
	Port      int             `json:"port"`
	Database  DatabaseConfig  `json:"database"`
	AI        AIConfig        `json:"ai"`
	Retrieval RetrievalConfig `json:"retrieval,omitempty"`
	Reindex   ReindexConfig   `json:"reindex,omitempty"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `json:"path"`
}

// AIConfig configures the answer-generation provider
type AIConfig struct {
	Provider        string `json:"provider"`                   // "gemini" (default) or "mock"
	Model           string `json:"model,omitempty"`            // Default: "gemini-1.5-pro"
	APIKey          string `json:"api_key,omitempty"`          // Supports ${ENV_VAR} expansion
	FallbackMessage string `json:"fallback_message,omitempty"` // Returned when generation fails
}

// RetrievalConfig tunes match selection
type RetrievalConfig struct {
	TopN     int     `json:"top_n,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
}

// ReindexConfig configures the optional scheduled index rebuild
type ReindexConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule,omitempty"` // cron expression
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Port: 5000,
		Database: DatabaseConfig{
			Path: "policychat.db",
		},
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-pro",
			APIKey:   "${GEMINI_API_KEY}",
		},
		Retrieval: RetrievalConfig{
			TopN:     3,
			MinScore: 0.1,
		},
		Reindex: ReindexConfig{
			Schedule: "0 */6 * * *",
		},
	}
}

// Load reads the configuration from path, applies defaults for missing
// fields and expands environment variable placeholders. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[Config] %s not found, using defaults", path)
			cfg := DefaultConfig()
			cfg.expandEnvVars()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("configuration validation failed: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills in unset fields from the defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.AI.Provider == "" {
		c.AI.Provider = def.AI.Provider
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = def.AI.APIKey
	}
	if c.Retrieval.TopN == 0 {
		c.Retrieval.TopN = def.Retrieval.TopN
	}
	if c.Retrieval.MinScore == 0 {
		c.Retrieval.MinScore = def.Retrieval.MinScore
	}
	if c.Reindex.Schedule == "" {
		c.Reindex.Schedule = def.Reindex.Schedule
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Database.Path = os.ExpandEnv(c.Database.Path)
	c.AI.APIKey = os.ExpandEnv(c.AI.APIKey)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AI.Provider != "gemini" && c.AI.Provider != "mock" {
		return fmt.Errorf("unknown AI provider: %q", c.AI.Provider)
	}
	if c.Retrieval.TopN < 1 {
		return fmt.Errorf("retrieval top_n must be positive, got %d", c.Retrieval.TopN)
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore >= 1 {
		return fmt.Errorf("retrieval min_score must be in [0, 1), got %g", c.Retrieval.MinScore)
	}
	if c.Reindex.Enabled && c.Reindex.Schedule == "" {
		return fmt.Errorf("reindex schedule is required when reindex is enabled")
	}
	return nil
}
