// Package optimizer implements the deterministic prompt-rewriting pass
// applied before routing and caching. It strips filler, condenses verbose
// instruction patterns, normalizes whitespace, and truncates oversized
// context blocks so the estimated token count shrinks without changing
// what the prompt asks for.
package optimizer

import (
	"regexp"
	"strings"
)

const (
	// DefaultContextBudget is the token budget for a marked context block.
	DefaultContextBudget = 1500

	ellipsisMarker = "... "
)

// Polite filler stripped at phrase boundaries, case-insensitively.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bplease `),
	regexp.MustCompile(`(?i)\bkindly `),
	regexp.MustCompile(`(?i)\bcould you `),
	regexp.MustCompile(`(?i)\bwould you mind `),
	regexp.MustCompile(`(?i)\bif you don't mind `),
	regexp.MustCompile(`(?i)\bi would appreciate it if you could `),
}

// Verbose instruction patterns and their concise equivalents. Matches are
// case-insensitive and the matched span is replaced by the lower-case
// equivalent; surrounding text keeps its original casing.
var verboseReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)provide a detailed explanation of`), "explain"},
	{regexp.MustCompile(`(?i)give me a comprehensive overview of`), "summarize"},
	{regexp.MustCompile(`(?i)it would be great if you could `), ""},
	{regexp.MustCompile(`(?i)i would like you to `), ""},
	{regexp.MustCompile(`(?i)in as much detail as possible`), ""},
	{regexp.MustCompile(`(?i)can you tell me`), "tell me"},
}

var (
	reExcessNewlines = regexp.MustCompile(`\n{3,}`)
	reExcessSpaces   = regexp.MustCompile(` {2,}`)

	reConciseRun = regexp.MustCompile(`(?i)(?:be concise[.!]?\s*){2,}`)
	reKeepBrief  = regexp.MustCompile(`(?i)keep it brief[.!]?\s*`)
)

// Section markers that open a truncatable context block. Matched literally:
// the vocabulary is upper-case by convention in the prompts this serves.
var sectionMarkers = []string{
	"MEETING CONTEXT:",
	"CONTEXT:",
	"TRANSCRIPT:",
	"DOCUMENT:",
}

// Markers that close a context block and open the trailer.
var trailerMarkers = []string{
	"QUESTION:",
	"TASK:",
	"INSTRUCTIONS:",
	"OUTPUT:",
}

// Optimizer rewrites prompts deterministically. Pure: no side effects,
// identical output for identical input.
type Optimizer struct {
	contextBudget int
}

// New creates an optimizer with the given context-block token budget.
func New(contextBudget int) *Optimizer {
	if contextBudget <= 0 {
		contextBudget = DefaultContextBudget
	}
	return &Optimizer{contextBudget: contextBudget}
}

// Optimize applies the rewrite pipeline in order: filler stripping,
// verbose-pattern condensing, whitespace normalization, context-block
// truncation, concision-instruction dedup. Total: any input, including
// the empty string, yields a string.
func (o *Optimizer) Optimize(prompt string) string {
	if prompt == "" {
		return prompt
	}

	out := prompt

	for _, re := range fillerPatterns {
		out = re.ReplaceAllString(out, "")
	}

	for _, vr := range verboseReplacements {
		out = vr.pattern.ReplaceAllString(out, vr.replacement)
	}

	out = reExcessNewlines.ReplaceAllString(out, "\n\n")
	out = reExcessSpaces.ReplaceAllString(out, " ")

	out = o.truncateContextBlock(out)

	out = reConciseRun.ReplaceAllString(out, "be concise. ")
	out = reKeepBrief.ReplaceAllString(out, "")

	return out
}

// EstimateTokens returns max(len/4, words*4/3), rounded down. A rough
// heuristic, not a tokenizer; treat the result as an approximation only.
func (o *Optimizer) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	byChars := len(text) / 4
	byWords := len(strings.Fields(text)) * 4 / 3

	if byWords > byChars {
		return byWords
	}
	return byChars
}

// truncateContextBlock splits the prompt at the first recognized section
// marker and, when the context block's estimate exceeds the budget, keeps
// only its last words, prefixed with an ellipsis marker. Header and
// trailer are preserved verbatim.
func (o *Optimizer) truncateContextBlock(prompt string) string {
	markerIdx, marker := findFirst(prompt, sectionMarkers)
	if markerIdx < 0 {
		return prompt
	}

	header := prompt[:markerIdx+len(marker)]
	rest := prompt[markerIdx+len(marker):]

	trailerIdx, _ := findFirst(rest, trailerMarkers)
	contextBlock := rest
	trailer := ""
	if trailerIdx >= 0 {
		contextBlock = rest[:trailerIdx]
		trailer = rest[trailerIdx:]
	}

	if o.EstimateTokens(contextBlock) <= o.contextBudget {
		return prompt
	}

	// Initial cut inverts the words*4/3 estimator arm: budget*3/4 words.
	words := strings.Fields(contextBlock)
	keep := o.contextBudget * 3 / 4
	if keep > len(words) {
		keep = len(words)
	}

	// The word cut caps only the word arm. Long words can leave the
	// len/4 arm over budget, and the ellipsis marker itself counts as a
	// field, so trim from the front until the kept block fits.
	kept := ellipsisMarker + strings.Join(words[len(words)-keep:], " ")
	for keep > 0 && o.EstimateTokens(kept) > o.contextBudget {
		keep--
		kept = ellipsisMarker + strings.Join(words[len(words)-keep:], " ")
	}

	var builder strings.Builder
	builder.WriteString(header)
	builder.WriteString("\n")
	builder.WriteString(kept)
	if trailer != "" {
		builder.WriteString("\n\n")
		builder.WriteString(trailer)
	}
	return builder.String()
}

// findFirst returns the earliest occurrence of any marker in s, preferring
// the leftmost match (longer markers listed first win ties at equal index).
func findFirst(s string, markers []string) (int, string) {
	bestIdx := -1
	bestMarker := ""
	for _, m := range markers {
		idx := strings.Index(s, m)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			bestIdx = idx
			bestMarker = m
		}
	}
	return bestIdx, bestMarker
}
