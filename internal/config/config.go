package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/nexuslabs/relay/internal/provider/anthropic"
	"github.com/nexuslabs/relay/internal/provider/gemini"
	"github.com/nexuslabs/relay/internal/provider/openai"
	"github.com/nexuslabs/relay/internal/provider/static"
	"github.com/nexuslabs/relay/internal/routing"
)

// Config represents the orchestrator configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Cache     CacheConfig
	Optimizer OptimizerConfig
	Routing   routing.Config
	OpenAI    openai.Config
	Gemini    gemini.Config
	Anthropic anthropic.Config
	Static    static.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CacheConfig selects and tunes the response cache backend.
type CacheConfig struct {
	Backend       string `env:"CACHE_BACKEND"     envDefault:"memory"`
	TTLSeconds    int    `env:"CACHE_TTL_SECONDS" envDefault:"3600"`
	RedisAddr     string `env:"REDIS_ADDR"        envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"          envDefault:"0"`
}

// OptimizerConfig tunes the prompt optimizer.
type OptimizerConfig struct {
	ContextBudget int `env:"OPTIMIZER_CONTEXT_BUDGET" envDefault:"1500"`
}

// DepConfig is used for dependency injection with dig. The provider
// configs all share the type name Config, so the fields are named rather
// than embedded.
type DepConfig struct {
	dig.Out

	Server    *ServerConfig
	CORS      *CORSConfig
	Cache     *CacheConfig
	Optimizer *OptimizerConfig
	Routing   *routing.Config
	OpenAI    *openai.Config
	Gemini    *gemini.Config
	Anthropic *anthropic.Config
	Static    *static.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:    &cfg.Server,
		CORS:      &cfg.CORS,
		Cache:     &cfg.Cache,
		Optimizer: &cfg.Optimizer,
		Routing:   &cfg.Routing,
		OpenAI:    &cfg.OpenAI,
		Gemini:    &cfg.Gemini,
		Anthropic: &cfg.Anthropic,
		Static:    &cfg.Static,
	}
}
