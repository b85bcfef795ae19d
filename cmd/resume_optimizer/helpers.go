package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/optimizing"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// loadRecord reads a resume record JSON file, validates it against the record
// schema, and unmarshals it.
func loadRecord(path string) (*types.ResumeRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	if err := schemas.ValidateRecord(content); err != nil {
		return nil, err
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}

	return &record, nil
}

// loadJobDescription reads the job posting text file when a path is given.
func loadJobDescription(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

// resolveMode turns the --mode flag into an optimization mode. An empty flag
// picks job-targeted optimization when a job posting was supplied and plain
// feedback otherwise.
func resolveMode(modeFlag string, hasJob bool) (types.OptimizationMode, error) {
	if modeFlag == "" {
		if hasJob {
			return types.ModeJobOptimized, nil
		}
		return types.ModeFeedbackOnly, nil
	}
	return types.ParseMode(modeFlag)
}

// defaultConfig is the built-in configuration the config file overrides.
func defaultConfig() config.Config {
	models := llm.DefaultGeminiConfig()
	polisher := llm.DefaultPolisherConfig()
	critic := llm.DefaultCriticConfig()
	retry := llm.DefaultRetryPolicy()

	return config.Config{
		PolisherModel:       models.GetModel(llm.RolePolisher),
		CriticModel:         models.GetModel(llm.RoleCritic),
		PolisherTemperature: polisher.Temperature,
		CriticTemperature:   critic.Temperature,
		MaxTokens:           polisher.MaxTokens,
		AcceptanceThreshold: optimizing.DefaultAcceptanceThreshold,
		Concurrency:         pipeline.DefaultConcurrency,
		MaxRetries:          retry.MaxRetries,
		BaseDelayMS:         int(retry.BaseDelay / time.Millisecond),
	}
}

// loadMergedConfig loads the optional config file and merges it over the
// built-in defaults. An empty path yields the defaults.
func loadMergedConfig(path string) (config.Config, error) {
	loaded := config.Config{}
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return loaded, err
		}
		loaded = *cfg
	}
	if err := loaded.Validate(); err != nil {
		return loaded, err
	}
	return loaded.MergeWithDefaults(defaultConfig()), nil
}

// modelConfig builds the provider model map, applying any config file overrides.
func modelConfig(cfg config.Config) *llm.Config {
	models := llm.DefaultGeminiConfig()
	if cfg.PolisherModel != "" {
		models = models.WithModel(llm.RolePolisher, cfg.PolisherModel)
	}
	if cfg.CriticModel != "" {
		models = models.WithModel(llm.RoleCritic, cfg.CriticModel)
	}
	return models
}

// generationConfigs builds the per-role generation parameters, applying any
// config file overrides.
func generationConfigs(cfg config.Config) (llm.GenerationConfig, llm.GenerationConfig) {
	polisher := llm.DefaultPolisherConfig()
	critic := llm.DefaultCriticConfig()
	if cfg.PolisherTemperature > 0 {
		polisher.Temperature = cfg.PolisherTemperature
	}
	if cfg.CriticTemperature > 0 {
		critic.Temperature = cfg.CriticTemperature
	}
	if cfg.MaxTokens > 0 {
		polisher.MaxTokens = cfg.MaxTokens
		critic.MaxTokens = cfg.MaxTokens
	}
	return polisher, critic
}

// retryPolicy builds the retry policy, applying any config file overrides.
func retryPolicy(cfg config.Config) llm.RetryPolicy {
	policy := llm.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if cfg.BaseDelayMS > 0 {
		policy.BaseDelay = time.Duration(cfg.BaseDelayMS) * time.Millisecond
	}
	return policy
}

// resolveAPIKey returns the first non-empty key from the flag, the config
// file, and the environment.
func resolveAPIKey(flagValue string, cfg config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY not set and --api-key not provided")
}

// writeJSON marshals v with indentation and writes it to path, or to stdout
// when path is "-".
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// newLogger builds the zap logger used by the pipeline commands.
func newLogger(verbose, jsonLogs bool) (*zap.Logger, error) {
	return logger.New(jsonLogs, verbose)
}
