// Package llm provides centralized LLM configuration and client abstractions.
// The package owns the generation parameters for each agent role and the
// retry policy applied to remote completion calls.
package llm

import (
	"github.com/go-playground/validator/v10"
)

// Role identifies which agent a generation request is made on behalf of.
// The polisher rewrites content; the critic scores it.
type Role string

const (
	// RolePolisher is the creative rewriting agent (higher temperature)
	RolePolisher Role = "polisher"
	// RoleCritic is the evaluation agent (lower temperature, deterministic)
	RoleCritic Role = "critic"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider (future)
	ProviderAnthropic Provider = "anthropic"
)

var validate = validator.New()

// GenerationConfig holds the per-role generation parameters for one request.
// Construct it once, validate it, and pass it by value; it is never mutated.
type GenerationConfig struct {
	Role        Role    `json:"role" validate:"required,oneof=polisher critic"`
	Temperature float64 `json:"temperature" validate:"min=0,max=1"`
	MaxTokens   int     `json:"max_tokens" validate:"gt=0"`
}

// Validate checks that all fields are within their documented ranges.
// Returns a *ConfigurationError so callers can fail fast before any model call.
func (c GenerationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ConfigurationError{
			Message: "invalid generation config for role " + string(c.Role),
			Cause:   err,
		}
	}
	return nil
}

// DefaultPolisherConfig returns the default polisher parameters. The higher
// temperature gives the rewriting agent room for creative phrasing.
func DefaultPolisherConfig() GenerationConfig {
	return GenerationConfig{
		Role:        RolePolisher,
		Temperature: 0.8,
		MaxTokens:   1024,
	}
}

// DefaultCriticConfig returns the default critic parameters. The low
// temperature keeps scoring consistent between runs.
func DefaultCriticConfig() GenerationConfig {
	return GenerationConfig{
		Role:        RoleCritic,
		Temperature: 0.3,
		MaxTokens:   1024,
	}
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[Role]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration.
// The polisher uses the stronger model; rewriting for impact requires more
// nuance than scoring does.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[Role]string{
			RolePolisher: "gemini-2.5-pro",
			RoleCritic:   "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given role
func (c *Config) GetModel(role Role) string {
	if model, ok := c.Models[role]; ok {
		return model
	}
	// Fallback: any configured model is better than none
	for _, model := range c.Models {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a role
func (c *Config) WithModel(role Role, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[Role]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[role] = model
	return newConfig
}
