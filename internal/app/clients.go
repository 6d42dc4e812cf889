package app

import (
	"fmt"

	"github.com/sambasci/marketing-tools-backend/internal/clients/anthropic"
	"github.com/sambasci/marketing-tools-backend/internal/clients/dataforseo"
	"github.com/sambasci/marketing-tools-backend/internal/clients/linkedin"
	"github.com/sambasci/marketing-tools-backend/internal/clients/openrouter"
	"github.com/sambasci/marketing-tools-backend/internal/clients/redis"
	"github.com/sambasci/marketing-tools-backend/internal/clients/xai"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

// Clients holds the external API clients. Each entry is nil when its
// credentials are absent: the owning tool reports the missing configuration
// at call time instead of blocking startup.
type Clients struct {
	DataForSEO dataforseo.Client
	Linkedin   linkedin.Client
	OpenRouter openrouter.Client
	XAI        xai.Client
	Anthropic  anthropic.Client
	Cache      *redis.Cache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var clients Clients

	if cfg.DataForSEOLogin != "" && cfg.DataForSEOPassword != "" {
		c, err := dataforseo.NewClient(log, cfg.DataForSEOLogin, cfg.DataForSEOPassword)
		if err != nil {
			return Clients{}, fmt.Errorf("init dataforseo client: %w", err)
		}
		clients.DataForSEO = c
	}

	if cfg.RapidAPIKey != "" {
		c, err := linkedin.NewClient(log, cfg.RapidAPIKey)
		if err != nil {
			return Clients{}, fmt.Errorf("init linkedin client: %w", err)
		}
		clients.Linkedin = c
	}

	if cfg.OpenRouterAPIKey != "" {
		c, err := openrouter.NewClient(log, cfg.OpenRouterAPIKey)
		if err != nil {
			return Clients{}, fmt.Errorf("init openrouter client: %w", err)
		}
		clients.OpenRouter = c
	}

	if cfg.XAIAPIKey != "" {
		c, err := xai.NewClient(log, cfg.XAIAPIKey)
		if err != nil {
			return Clients{}, fmt.Errorf("init xai client: %w", err)
		}
		clients.XAI = c
	}

	if cfg.AnthropicAPIKey != "" {
		c, err := anthropic.NewClient(log, cfg.AnthropicAPIKey)
		if err != nil {
			return Clients{}, fmt.Errorf("init anthropic client: %w", err)
		}
		clients.Anthropic = c
	}

	clients.Cache = redis.NewCache(log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	return clients, nil
}
