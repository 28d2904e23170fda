package static_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/provider/static"
)

func TestAdapter_ID(t *testing.T) {
	require.Equal(t, "static:canned", static.NewAdapter().ID())
}

func TestAdapter_Invoke_Deterministic(t *testing.T) {
	ctx := context.Background()
	adapter := static.NewAdapter()

	first, err := adapter.Invoke(ctx, "Summarize the meeting notes", 100, 0.7)
	require.NoError(t, err)

	second, err := adapter.Invoke(ctx, "Summarize the meeting notes", 2000, 0.0)
	require.NoError(t, err)

	require.Equal(t, first.Text, second.Text)
	require.Equal(t, first.TokensUsed, second.TokensUsed)
}

func TestAdapter_Invoke_TruncatesLongPrompts(t *testing.T) {
	ctx := context.Background()
	adapter := static.NewAdapter()

	result, err := adapter.Invoke(ctx, "one two three four five six seven eight nine ten", 100, 0.7)
	require.NoError(t, err)
	require.Equal(t, "canned completion for: one two three four five six seven eight", result.Text)
}

func TestAdapter_Invoke_TokenCount(t *testing.T) {
	ctx := context.Background()
	adapter := static.NewAdapter()

	result, err := adapter.Invoke(ctx, "hello world", 100, 0.7)
	require.NoError(t, err)

	// 2 prompt words + 5 response words ("canned completion for: hello world").
	require.Equal(t, 7, result.TokensUsed)
	require.Zero(t, result.LatencyMs)
}

func TestAdapter_Invoke_EmptyPrompt(t *testing.T) {
	adapter := static.NewAdapter()

	_, err := adapter.Invoke(context.Background(), "", 100, 0.7)
	require.Error(t, err)

	var providerErr *domain.ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "static:canned", providerErr.ProviderID)
}
