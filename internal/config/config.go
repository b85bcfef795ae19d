// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values fall back to built-in defaults or
// must be provided via CLI flags.
type Config struct {
	// Paths
	Job      string `json:"job,omitempty"`      // Path to job posting text file
	Template string `json:"template,omitempty"` // Path to LaTeX template

	// Models
	PolisherModel string `json:"polisher_model,omitempty"` // Model used for rewriting
	CriticModel   string `json:"critic_model,omitempty"`   // Model used for scoring

	// Generation parameters
	PolisherTemperature float64 `json:"polisher_temperature,omitempty"` // 0.0-1.0
	CriticTemperature   float64 `json:"critic_temperature,omitempty"`   // 0.0-1.0
	MaxTokens           int     `json:"max_tokens,omitempty"`           // Per-call output token limit

	// Loop behavior
	AcceptanceThreshold int `json:"acceptance_threshold,omitempty"` // Critic score accepted without re-polish (1-100)
	Concurrency         int `json:"concurrency,omitempty"`          // Sections optimized in parallel

	// Retry behavior
	MaxRetries  int `json:"max_retries,omitempty"`   // Retries after transient failures
	BaseDelayMS int `json:"base_delay_ms,omitempty"` // First backoff delay in milliseconds

	// Environment
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here; the CLI enforces those after
// flags and config are merged.
func (c *Config) Validate() error {
	if c.PolisherTemperature < 0 || c.PolisherTemperature > 1 {
		return fmt.Errorf("config error: 'polisher_temperature' must be between 0.0 and 1.0")
	}
	if c.CriticTemperature < 0 || c.CriticTemperature > 1 {
		return fmt.Errorf("config error: 'critic_temperature' must be between 0.0 and 1.0")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.AcceptanceThreshold < 0 || c.AcceptanceThreshold > 100 {
		return fmt.Errorf("config error: 'acceptance_threshold' must be between 0 and 100")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}
	if c.BaseDelayMS < 0 {
		return fmt.Errorf("config error: 'base_delay_ms' must be non-negative")
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.PolisherModel == "" {
		result.PolisherModel = defaults.PolisherModel
	}
	if result.CriticModel == "" {
		result.CriticModel = defaults.CriticModel
	}
	if result.PolisherTemperature == 0 {
		result.PolisherTemperature = defaults.PolisherTemperature
	}
	if result.CriticTemperature == 0 {
		result.CriticTemperature = defaults.CriticTemperature
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.AcceptanceThreshold == 0 {
		result.AcceptanceThreshold = defaults.AcceptanceThreshold
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.BaseDelayMS == 0 {
		result.BaseDelayMS = defaults.BaseDelayMS
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
