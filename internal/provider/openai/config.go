package openai

// Config contains OpenAI provider configuration.
// All fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//   - MaxRetries: Maps to option.WithMaxRetries()
//
// Models lists the variants to register; one adapter is built per model,
// all sharing the same client handle.
type Config struct {
	APIKey     string   `env:"OPENAI_API_KEY"`
	BaseURL    string   `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	Timeout    int      `env:"OPENAI_TIMEOUT"     envDefault:"60"`
	MaxRetries int      `env:"OPENAI_MAX_RETRIES" envDefault:"2"`
	Models     []string `env:"OPENAI_MODELS"      envSeparator:"," envDefault:"gpt-4o-mini,gpt-4o"`
}
