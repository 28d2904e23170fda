// Package static provides a deterministic in-memory provider for
// development and testing. It makes no external calls, returns a canned
// completion derived from the prompt, and registers under the zero-cost
// pricing family.
package static

import (
	"context"
	"errors"
	"strings"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/observability"
)

const providerID = "static:canned"

// Config enables the static provider.
type Config struct {
	Enabled bool `env:"STATIC_PROVIDER_ENABLED" envDefault:"false"`
}

// Adapter implements the domain.Provider interface without external calls.
type Adapter struct {
	id string
}

// NewAdapter creates a new static adapter.
func NewAdapter() *Adapter {
	return &Adapter{id: providerID}
}

// ID returns the stable provider identifier.
func (a *Adapter) ID() string {
	return a.id
}

// Invoke returns a canned completion. Deterministic for a given prompt.
func (a *Adapter) Invoke(ctx context.Context, prompt string, _ int, _ float64) (*domain.ProviderResult, error) {
	if prompt == "" {
		return nil, domain.NewProviderError(a.id, errors.New("prompt cannot be empty"))
	}

	logger := observability.FromContext(ctx)
	logger.Debug("serving canned completion")

	text := "canned completion for: " + firstWords(prompt, 8)

	return &domain.ProviderResult{
		Text:       text,
		TokensUsed: countWords(prompt) + countWords(text),
		LatencyMs:  0,
	}, nil
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
