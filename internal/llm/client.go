package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Complete generates text for a prompt using the parameters of the given
	// role configuration. It returns generated text or a *GenerationError.
	Complete(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, retry RetryPolicy) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey, retry)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey, retry)
	// case ProviderAnthropic:
	//     return NewClaudeClient(ctx, config, apiKey, retry)
	default:
		return NewGeminiClient(ctx, config, apiKey, retry)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	retry  RetryPolicy
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, retry RetryPolicy) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		retry:  retry,
	}, nil
}

// Complete generates text for a prompt with the given role parameters.
// Transient failures are retried per the client's RetryPolicy; everything
// else surfaces as a *GenerationError without retry.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &ConfigurationError{Message: "prompt must not be empty"}
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	modelName := c.config.GetModel(cfg.Role)
	if modelName == "" {
		return "", &ConfigurationError{
			Message: fmt.Sprintf("no model configured for role %s", cfg.Role),
		}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	return withRetry(ctx, c.retry, func() (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", classifyError(err, fmt.Sprintf("completion failed for role %s", cfg.Role))
		}
		return extractTextFromResponse(resp)
	})
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &GenerationError{Kind: KindEmptyResponse, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &GenerationError{Kind: KindEmptyResponse, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &GenerationError{Kind: KindEmptyResponse, Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
