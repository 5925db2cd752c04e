// Package config handles persistent briefd configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// AI Models
	Models ModelConfig `json:"models"`

	// Signal sources
	Sources SourceConfig `json:"sources"`

	// Pipeline tuning
	Pipeline PipelineConfig `json:"pipeline"`

	// Extra known apps merged over the built-in registry
	KnownApps map[string]AppIDs `json:"known_apps,omitempty"`
}

// ModelConfig holds AI model settings
type ModelConfig struct {
	Claude ModelSettings `json:"claude"`
	Ollama ModelSettings `json:"ollama"`
}

// ModelSettings for a single AI provider
type ModelSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"` // For Ollama or custom endpoints
	Model    string `json:"model,omitempty"`    // Specific model to use
	Priority int    `json:"priority"`           // Lower = higher priority for fallback
}

// SourceConfig toggles individual signal sources
type SourceConfig struct {
	Reddit    bool     `json:"reddit"`
	PlayStore bool     `json:"playstore"`
	AppStore  bool     `json:"appstore"`
	ForumRSS  []string `json:"forum_rss,omitempty"` // Extra forum feed URL templates
	UserAgent string   `json:"user_agent,omitempty"`
}

// PipelineConfig holds pipeline caps and batching
type PipelineConfig struct {
	MaxSignals   int `json:"max_signals"`   // Signal cap after dedup
	BatchSize    int `json:"batch_size"`    // Signals per sentiment batch
	RecencyDays  int `json:"recency_days"`  // Per-source recency cutoff
	MaxThemes    int `json:"max_themes"`    // Theme cap per synthesis run
	MaxQuotes    int `json:"max_quotes"`    // Evidence quote cap per theme
	OracleTokens int `json:"oracle_tokens"` // Max tokens per oracle call
}

// AppIDs holds per-store app identifiers for a product
type AppIDs struct {
	PlayStore string `json:"playstore,omitempty"`
	AppStore  string `json:"appstore,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Models: ModelConfig{
			Claude: ModelSettings{
				Enabled:  true,
				Priority: 1,
				Model:    "claude-sonnet-4-5-20250929",
			},
			Ollama: ModelSettings{
				Enabled:  false,
				Priority: 2,
				Endpoint: "http://localhost:11434",
				// Model auto-detected from Ollama if not specified
			},
		},
		Sources: SourceConfig{
			Reddit:    true,
			PlayStore: true,
			AppStore:  true,
			UserAgent: "briefd/0.1 (discovery intelligence)",
		},
		Pipeline: PipelineConfig{
			MaxSignals:   200,
			BatchSize:    25,
			RecencyDays:  7,
			MaxThemes:    8,
			MaxQuotes:    8,
			OracleTokens: 2048,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".briefd", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyFallbacks()
	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.Models.Claude.APIKey == "" {
		c.Models.Claude.APIKey = key
		c.Models.Claude.Enabled = true
	}
	if ep := os.Getenv("OLLAMA_HOST"); ep != "" && c.Models.Ollama.Endpoint == "http://localhost:11434" {
		c.Models.Ollama.Endpoint = ep
	}
	if ua := os.Getenv("REDDIT_USER_AGENT"); ua != "" {
		c.Sources.UserAgent = ua
	}
}

// applyFallbacks fills zero values in a hand-edited config file
func (c *Config) applyFallbacks() {
	def := DefaultConfig()
	if c.Pipeline.MaxSignals <= 0 {
		c.Pipeline.MaxSignals = def.Pipeline.MaxSignals
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = def.Pipeline.BatchSize
	}
	if c.Pipeline.RecencyDays <= 0 {
		c.Pipeline.RecencyDays = def.Pipeline.RecencyDays
	}
	if c.Pipeline.MaxThemes <= 0 {
		c.Pipeline.MaxThemes = def.Pipeline.MaxThemes
	}
	if c.Pipeline.MaxQuotes <= 0 {
		c.Pipeline.MaxQuotes = def.Pipeline.MaxQuotes
	}
	if c.Pipeline.OracleTokens <= 0 {
		c.Pipeline.OracleTokens = def.Pipeline.OracleTokens
	}
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = def.Sources.UserAgent
	}
}
