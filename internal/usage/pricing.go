package usage

import "strings"

// Pricing family names. A family groups all model variants of one backend
// under a single flat rate; provider ids reduce to a family via the alias
// table below.
const (
	FamilyOpenAI    = "openai"
	FamilyGemini    = "gemini"
	FamilyAnthropic = "anthropic"
	FamilyStatic    = "static"
	FamilyDefault   = "default"
)

// Rate holds USD per one million tokens.
type Rate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

const (
	openaiInputPerMillion  = 0.15
	openaiOutputPerMillion = 0.60

	geminiInputPerMillion  = 0.10
	geminiOutputPerMillion = 0.40

	anthropicInputPerMillion  = 0.80
	anthropicOutputPerMillion = 4.00

	defaultInputPerMillion  = 0.50
	defaultOutputPerMillion = 1.50
)

// pricingTable is static configuration: moment-in-time rates, advisory only.
var pricingTable = map[string]Rate{
	FamilyOpenAI:    {InputPerMillion: openaiInputPerMillion, OutputPerMillion: openaiOutputPerMillion},
	FamilyGemini:    {InputPerMillion: geminiInputPerMillion, OutputPerMillion: geminiOutputPerMillion},
	FamilyAnthropic: {InputPerMillion: anthropicInputPerMillion, OutputPerMillion: anthropicOutputPerMillion},
	FamilyStatic:    {InputPerMillion: 0, OutputPerMillion: 0},
	FamilyDefault:   {InputPerMillion: defaultInputPerMillion, OutputPerMillion: defaultOutputPerMillion},
}

// familyAliases maps substrings of provider ids to families, checked in
// order. Model-variant suffixes never matter: any id containing "claude"
// lands on the anthropic family.
var familyAliases = []struct {
	substr string
	family string
}{
	{"claude", FamilyAnthropic},
	{"anthropic", FamilyAnthropic},
	{"gemini", FamilyGemini},
	{"google", FamilyGemini},
	{"gpt", FamilyOpenAI},
	{"openai", FamilyOpenAI},
	{"static", FamilyStatic},
}

// ResolveFamily reduces a provider id to its pricing family. Malformed or
// unknown ids fall back to the default family rather than erroring.
func ResolveFamily(providerID string) string {
	id := strings.ToLower(providerID)
	for _, alias := range familyAliases {
		if strings.Contains(id, alias.substr) {
			return alias.family
		}
	}
	return FamilyDefault
}

// RateFor returns the flat rate for a family, defaulting for unknown ones.
func RateFor(family string) Rate {
	if rate, exists := pricingTable[family]; exists {
		return rate
	}
	return pricingTable[FamilyDefault]
}
