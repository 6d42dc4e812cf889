package app

import (
	"time"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/utils"
)

type Config struct {
	AppUsername    string
	AppPassword    string
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DataForSEOLogin    string
	DataForSEOPassword string
	RapidAPIKey        string
	OpenRouterAPIKey   string
	XAIAPIKey          string
	AnthropicAPIKey    string
	AnalysisModel      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	cacheTTLSeconds := utils.GetEnvAsInt("KEYWORD_CACHE_TTL", 86400, log)
	return Config{
		AppUsername:    utils.GetEnv("APP_USERNAME", "", log),
		AppPassword:    utils.GetEnv("APP_PASSWORD", "", log),
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "", log),
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,

		DataForSEOLogin:    utils.GetEnv("DATAFORSEO_LOGIN", "", log),
		DataForSEOPassword: utils.GetEnv("DATAFORSEO_PASSWORD", "", log),
		RapidAPIKey:        utils.GetEnv("RAPIDAPI_KEY", "", log),
		OpenRouterAPIKey:   utils.GetEnv("OPENROUTER_API_KEY", "", log),
		XAIAPIKey:          utils.GetEnv("XAI_API_KEY", "", log),
		AnthropicAPIKey:    utils.GetEnv("ANTHROPIC_API_KEY", "", log),
		AnalysisModel:      utils.GetEnv("ANALYSIS_MODEL", "", log),

		RedisAddr:     utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword: utils.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
		CacheTTL:      time.Duration(cacheTTLSeconds) * time.Second,
	}
}
