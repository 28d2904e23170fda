// Package openai provides an adapter for the OpenAI API using the official
// SDK. It implements the domain.Provider contract and handles conversion
// between the single-prompt invocation and SDK chat types. All SDK failures
// are wrapped as domain.ProviderError before crossing the port boundary.
package openai

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

// Adapter implements the domain.Provider interface for one OpenAI model.
type Adapter struct {
	client  openai.Client
	id      string
	model   string
	timeout time.Duration
}

// NewAdapter creates an adapter for the given model. Several adapters may
// share one underlying transport, differing only by model (or base URL for
// OpenAI-compatible endpoints).
func NewAdapter(config Config, model string) (*Adapter, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Adapter{
		client:  openai.NewClient(opts...),
		id:      "openai:" + model,
		model:   model,
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
	logger.Debug("calling OpenAI API", observability.String("model", a.model))

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
		logger.Error("OpenAI API call failed", observability.Error(err))
		return nil, domain.NewProviderError(a.id, fmt.Errorf("chat completion failed: %w", err))
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return &domain.ProviderResult{
		Text:       content,
		TokensUsed: int(resp.Usage.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
