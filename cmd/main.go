package main

import (
	"context"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	memorycache "github.com/nexuslabs/relay/internal/cache/memory"
	rediscache "github.com/nexuslabs/relay/internal/cache/redis"
	"github.com/nexuslabs/relay/internal/config"
	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/httpserver"
	"github.com/nexuslabs/relay/internal/httpserver/middleware"
	"github.com/nexuslabs/relay/internal/observability"
	"github.com/nexuslabs/relay/internal/optimizer"
	"github.com/nexuslabs/relay/internal/provider/anthropic"
	"github.com/nexuslabs/relay/internal/provider/gemini"
	"github.com/nexuslabs/relay/internal/provider/openai"
	"github.com/nexuslabs/relay/internal/provider/registry"
	"github.com/nexuslabs/relay/internal/provider/static"
	"github.com/nexuslabs/relay/internal/routing"
	"github.com/nexuslabs/relay/internal/usage"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Register providers with registry (invoked for side effects).
	// Providers without credentials are skipped, not fatal: the routing
	// table filters against what actually registered.
	if err := container.Invoke(registerProviders); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	// Core components
	if err := container.Provide(func(cfg *config.OptimizerConfig) domain.PromptOptimizer {
		return optimizer.New(cfg.ContextBudget)
	}); err != nil {
		log.Fatalf("Failed to provide optimizer: %v", err)
	}
	if err := container.Provide(buildCache); err != nil {
		log.Fatalf("Failed to provide response cache: %v", err)
	}
	if err := container.Provide(func() domain.UsageTracker {
		return usage.NewTracker()
	}); err != nil {
		log.Fatalf("Failed to provide usage tracker: %v", err)
	}
	if err := container.Provide(func(reg domain.ProviderRegistry, cfg *routing.Config) domain.Router {
		return routing.NewTable(reg, cfg)
	}); err != nil {
		log.Fatalf("Failed to provide routing table: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewOrchestratorService); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(func(corsCfg *config.CORSConfig) middleware.Middleware {
		return middleware.BuildMiddlewareChain(corsCfg)
	}); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// registerProviders constructs every adapter whose credentials are present
// and registers it. One OpenAI adapter is built per configured model, all
// sharing the same transport settings.
func registerProviders(cfg *config.Config, reg domain.ProviderRegistry, logger *zap.Logger) error {
	ctx := context.Background()

	if cfg.OpenAI.APIKey != "" {
		for _, model := range cfg.OpenAI.Models {
			if model == "" {
				continue
			}
			adapter, err := openai.NewAdapter(cfg.OpenAI, model)
			if err != nil {
				return err
			}
			if err := reg.Register(ctx, adapter); err != nil {
				return err
			}
			logger.Info("registered provider", zap.String("provider", adapter.ID()))
		}
	} else {
		logger.Warn("OpenAI provider not configured, skipping")
	}

	if cfg.Gemini.APIKey != "" {
		adapter, err := gemini.NewAdapter(cfg.Gemini)
		if err != nil {
			return err
		}
		if err := reg.Register(ctx, adapter); err != nil {
			return err
		}
		logger.Info("registered provider", zap.String("provider", adapter.ID()))
	} else {
		logger.Warn("Gemini provider not configured, skipping")
	}

	if cfg.Anthropic.APIKey != "" {
		adapter, err := anthropic.NewAdapter(cfg.Anthropic)
		if err != nil {
			return err
		}
		if err := reg.Register(ctx, adapter); err != nil {
			return err
		}
		logger.Info("registered provider", zap.String("provider", adapter.ID()))
	} else {
		logger.Warn("Anthropic provider not configured, skipping")
	}

	if cfg.Static.Enabled {
		adapter := static.NewAdapter()
		if err := reg.Register(ctx, adapter); err != nil {
			return err
		}
		logger.Info("registered provider", zap.String("provider", adapter.ID()))
	}

	return nil
}

// buildCache selects the response cache backend from configuration.
func buildCache(cfg *config.CacheConfig, logger *zap.Logger) domain.ResponseCache {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second

	if cfg.Backend == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		logger.Info("using redis response cache", zap.String("addr", cfg.RedisAddr))
		return rediscache.NewCache(client, ttl)
	}

	logger.Info("using in-memory response cache", zap.Duration("ttl", ttl))
	return memorycache.NewCache(ttl)
}
