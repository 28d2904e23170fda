package optimizer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexuslabs/relay/internal/optimizer"
)

func TestOptimizer_Optimize_Deterministic(t *testing.T) {
	opt := optimizer.New(0)

	prompts := []string{
		"",
		"Explain goroutines",
		"Please provide a detailed explanation of channels.\n\n\n\nBe concise. Be concise.",
		"CONTEXT:\nsome context here\n\nQUESTION: what?",
	}

	for _, prompt := range prompts {
		first := opt.Optimize(prompt)
		second := opt.Optimize(prompt)
		require.Equal(t, first, second)
	}
}

func TestOptimizer_Optimize_EmptyInput(t *testing.T) {
	opt := optimizer.New(0)
	require.Empty(t, opt.Optimize(""))
}

func TestOptimizer_Optimize_StripsFiller(t *testing.T) {
	opt := optimizer.New(0)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "please at start",
			input:    "Please explain this function",
			expected: "explain this function",
		},
		{
			name:     "could you mid-sentence",
			input:    "Now Could You summarize the notes",
			expected: "Now summarize the notes",
		},
		{
			name:     "kindly",
			input:    "kindly list the participants",
			expected: "list the participants",
		},
		{
			name:     "no filler untouched",
			input:    "List the participants",
			expected: "List the participants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, opt.Optimize(tt.input))
		})
	}
}

func TestOptimizer_Optimize_CondensesVerbosePatterns(t *testing.T) {
	opt := optimizer.New(0)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "detailed explanation becomes explain",
			input:    "Provide a detailed explanation of goroutines",
			expected: "explain goroutines",
		},
		{
			name:     "matched span lowered, surrounding casing kept",
			input:    "NOW Provide A Detailed Explanation Of Channels",
			expected: "NOW explain Channels",
		},
		{
			name:     "comprehensive overview becomes summarize",
			input:    "Give me a comprehensive overview of the meeting",
			expected: "summarize the meeting",
		},
		{
			name:     "can you tell me",
			input:    "Can you tell me who attended?",
			expected: "tell me who attended?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, opt.Optimize(tt.input))
		})
	}
}

func TestOptimizer_Optimize_CollapsesWhitespace(t *testing.T) {
	opt := optimizer.New(0)

	require.Equal(t, "alpha\n\nbeta", opt.Optimize("alpha\n\n\n\n\nbeta"))
	require.Equal(t, "alpha beta", opt.Optimize("alpha     beta"))
	require.Equal(t, "alpha\n\nbeta", opt.Optimize("alpha\n\nbeta"))
}

func TestOptimizer_Optimize_ConcisionInstructions(t *testing.T) {
	opt := optimizer.New(0)

	t.Run("run of be concise collapses to one", func(t *testing.T) {
		out := opt.Optimize("Summarize the call. Be concise. Be concise. Be concise.")
		require.Equal(t, "Summarize the call. be concise. ", out)
	})

	t.Run("single be concise untouched", func(t *testing.T) {
		out := opt.Optimize("Summarize the call. Be concise.")
		require.Equal(t, "Summarize the call. Be concise.", out)
	})

	t.Run("keep it brief stripped", func(t *testing.T) {
		out := opt.Optimize("Summarize the call. Keep it brief.")
		require.Equal(t, "Summarize the call. ", out)
	})
}

func TestOptimizer_Optimize_TruncatesOversizedContextBlock(t *testing.T) {
	const budget = 40
	opt := optimizer.New(budget)

	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}

	header := "Answer from the meeting.\nCONTEXT:"
	trailer := "QUESTION: what was decided?"
	prompt := header + "\n" + strings.Join(words, " ") + "\n\n" + trailer

	out := opt.Optimize(prompt)

	// Header and trailer survive verbatim.
	require.True(t, strings.HasPrefix(out, header+"\n... "))
	require.True(t, strings.HasSuffix(out, "\n\n"+trailer))

	// Kept block is the tail of the original words, within budget.
	block := strings.TrimSuffix(strings.TrimPrefix(out, header+"\n"), "\n\n"+trailer)
	require.LessOrEqual(t, opt.EstimateTokens(block), budget)
	require.NotContains(t, block, "word000")
	require.True(t, strings.HasSuffix(block, "word199"))

	kept := strings.Fields(strings.TrimPrefix(block, "... "))
	require.Equal(t, words[len(words)-len(kept):], kept)
}

func TestOptimizer_Optimize_TruncationFitsBudgetWithLongWords(t *testing.T) {
	const budget = 40
	opt := optimizer.New(budget)

	// 20-char words make the char-based estimator arm dominate, so the
	// word-count cut alone is not enough.
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("identifier%010d", i)
	}

	header := "DOCUMENT:"
	trailer := "TASK: extract the identifiers"
	prompt := header + "\n" + strings.Join(words, " ") + "\n\n" + trailer

	out := opt.Optimize(prompt)

	require.True(t, strings.HasPrefix(out, header+"\n... "))
	require.True(t, strings.HasSuffix(out, "\n\n"+trailer))

	block := strings.TrimSuffix(strings.TrimPrefix(out, header+"\n"), "\n\n"+trailer)
	require.LessOrEqual(t, opt.EstimateTokens(block), budget)
	require.True(t, strings.HasSuffix(block, fmt.Sprintf("identifier%010d", 199)))
}

func TestOptimizer_Optimize_ContextBlockUnderBudgetUntouched(t *testing.T) {
	opt := optimizer.New(1500)

	prompt := "TRANSCRIPT:\nshort transcript body\n\nTASK: summarize it"
	require.Equal(t, prompt, opt.Optimize(prompt))
}

func TestOptimizer_EstimateTokens(t *testing.T) {
	opt := optimizer.New(0)

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "single short word", input: "abcd", expected: 1},
		// 4 words of 4 chars: 19/4=4 by chars, 4*4/3=5 by words
		{name: "word-heavy text uses word estimate", input: "aaaa bbbb cccc dddd", expected: 5},
		// one long token: 40/4=10 by chars, 1*4/3=1 by words
		{name: "char-heavy text uses char estimate", input: strings.Repeat("x", 40), expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, opt.EstimateTokens(tt.input))
		})
	}
}
