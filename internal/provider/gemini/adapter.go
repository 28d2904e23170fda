// Package gemini provides an adapter for Google's Gemini models through
// their OpenAI-compatible endpoint, reusing the same SDK transport as the
// OpenAI adapter with a different base URL and model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/observability"
)

// Config contains Gemini provider configuration. BaseURL points at the
// OpenAI-compatible surface of the Generative Language API.
type Config struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	BaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Timeout int    `env:"GEMINI_TIMEOUT"  envDefault:"60"`
	Model   string `env:"GEMINI_MODEL"    envDefault:"gemini-2.0-flash"`
}

// Adapter implements the domain.Provider interface for one Gemini model.
type Adapter struct {
	client  openai.Client
	id      string
	model   string
	timeout time.Duration
}

// NewAdapter creates a new Gemini adapter.
func NewAdapter(config Config) (*Adapter, error) {
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	if config.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
	}

	return &Adapter{
		client:  openai.NewClient(opts...),
		id:      "gemini:" + config.Model,
		model:   config.Model,
		timeout: time.Duration(config.Timeout) * time.Second,
	}, nil
}

// ID returns the stable provider identifier.
func (a *Adapter) ID() string {
	return a.id
}

// Invoke sends a single-turn chat completion and returns the text.
func (a *Adapter) Invoke(ctx context.Context, prompt string, maxTokens int, temperature float64) (*domain.ProviderResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling Gemini API", observability.String("model", a.model))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}

	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	start := time.Now()

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("Gemini API call failed", observability.Error(err))
		return nil, domain.NewProviderError(a.id, fmt.Errorf("chat completion failed: %w", err))
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &domain.ProviderResult{
		Text:       content,
		TokensUsed: int(resp.Usage.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
