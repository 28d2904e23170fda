// Package anthropic provides an adapter for the Anthropic Messages API.
// The API is not OpenAI-shaped, so this adapter carries its own hand-rolled
// HTTP client rather than sharing the SDK transport.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/observability"
)

// Config contains Anthropic provider configuration.
type Config struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Timeout int    `env:"ANTHROPIC_TIMEOUT"  envDefault:"60"`
	Version string `env:"ANTHROPIC_VERSION"  envDefault:"2023-06-01"`
	Model   string `env:"ANTHROPIC_MODEL"    envDefault:"claude-3-5-haiku-20241022"`
}

// Adapter implements the domain.Provider interface for one Claude model.
type Adapter struct {
	client *Client
	id     string
	model  string
}

// NewAdapter creates a new Anthropic adapter.
func NewAdapter(config Config) (*Adapter, error) {
	if config.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	if config.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	return &Adapter{
		client: NewClient(config),
		id:     "anthropic:" + config.Model,
		model:  config.Model,
	}, nil
}

// ID returns the stable provider identifier.
func (a *Adapter) ID() string {
	return a.id
}

// Invoke sends a single-turn message and returns the text. The Messages
// API requires max_tokens, and it reports usage split by direction; the
// adapter surfaces the sum as the total.
func (a *Adapter) Invoke(ctx context.Context, prompt string, maxTokens int, temperature float64) (*domain.ProviderResult, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling Anthropic API", observability.String("model", a.model))

	start := time.Now()

	resp, err := a.client.CreateMessage(ctx, messagesRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		logger.Error("Anthropic API call failed", observability.Error(err))
		return nil, domain.NewProviderError(a.id, fmt.Errorf("message creation failed: %w", err))
	}

	logger.Debug("Anthropic API call succeeded",
		observability.Int("input_tokens", resp.Usage.InputTokens),
		observability.Int("output_tokens", resp.Usage.OutputTokens),
	)

	return &domain.ProviderResult{
		Text:       resp.Text(),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
