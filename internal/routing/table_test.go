package routing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/routing"
)

// mockRegistry is a mock implementation of ProviderRegistry for testing.
type mockRegistry struct {
	registered map[string]struct{}
}

func newMockRegistry(ids ...string) *mockRegistry {
	registered := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		registered[id] = struct{}{}
	}
	return &mockRegistry{registered: registered}
}

func (m *mockRegistry) Register(_ context.Context, provider domain.Provider) error {
	m.registered[provider.ID()] = struct{}{}
	return nil
}

func (m *mockRegistry) Get(_ context.Context, providerID string) (domain.Provider, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRegistry) Has(_ context.Context, providerID string) bool {
	_, exists := m.registered[providerID]
	return exists
}

func (m *mockRegistry) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.registered))
	for id := range m.registered {
		ids = append(ids, id)
	}
	return ids, nil
}

func testConfig() *routing.Config {
	return &routing.Config{
		Intent:        []string{"gemini:gemini-2.0-flash", "openai:gpt-4o-mini"},
		CodeGen:       []string{"openai:gpt-4o", "gemini:gemini-2.0-flash"},
		Summarization: []string{"gemini:gemini-2.0-flash", "openai:gpt-4o", "anthropic:claude-3-5-haiku-20241022"},
		Extraction:    []string{"gemini:gemini-2.0-flash", "openai:gpt-4o", "anthropic:claude-3-5-haiku-20241022"},
		Default:       []string{"gemini:gemini-2.0-flash", "openai:gpt-4o-mini", "anthropic:claude-3-5-haiku-20241022"},
	}
}

func TestTable_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves preference order", func(t *testing.T) {
		registry := newMockRegistry(
			"gemini:gemini-2.0-flash",
			"openai:gpt-4o",
			"anthropic:claude-3-5-haiku-20241022",
		)
		table := routing.NewTable(registry, testConfig())

		resolved := table.Resolve(ctx, domain.TaskSummarization)

		require.Equal(t, []string{
			"gemini:gemini-2.0-flash",
			"openai:gpt-4o",
			"anthropic:claude-3-5-haiku-20241022",
		}, resolved)
	})

	t.Run("skips unregistered providers", func(t *testing.T) {
		registry := newMockRegistry("openai:gpt-4o-mini")
		table := routing.NewTable(registry, testConfig())

		resolved := table.Resolve(ctx, domain.TaskIntent)

		require.Equal(t, []string{"openai:gpt-4o-mini"}, resolved)
	})

	t.Run("unlisted task uses default order", func(t *testing.T) {
		registry := newMockRegistry("openai:gpt-4o-mini", "gemini:gemini-2.0-flash")
		table := routing.NewTable(registry, testConfig())

		resolved := table.Resolve(ctx, domain.TaskOther)

		require.Equal(t, []string{"gemini:gemini-2.0-flash", "openai:gpt-4o-mini"}, resolved)
	})

	t.Run("empty when nothing registered", func(t *testing.T) {
		registry := newMockRegistry()
		table := routing.NewTable(registry, testConfig())

		resolved := table.Resolve(ctx, domain.TaskCodeGen)

		require.Empty(t, resolved)
	})

	t.Run("blank ids in config are ignored", func(t *testing.T) {
		registry := newMockRegistry("openai:gpt-4o")
		cfg := testConfig()
		cfg.CodeGen = []string{"", "openai:gpt-4o", ""}
		table := routing.NewTable(registry, cfg)

		resolved := table.Resolve(ctx, domain.TaskCodeGen)

		require.Equal(t, []string{"openai:gpt-4o"}, resolved)
	})
}
