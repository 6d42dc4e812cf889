package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/services"
)

type Services struct {
	Auth            services.AuthService
	CompanyIntel    services.CompanyIntelService
	KeywordResearch services.KeywordResearchService
	CompanyResearch services.CompanyResearchService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	// Missing dashboard credentials stop the whole app here.
	authService, err := services.NewAuthService(db, log, reposet.SessionToken, cfg.AppUsername, cfg.AppPassword, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	intelService := services.NewCompanyIntelService(
		db,
		log,
		clients.Linkedin,
		clients.OpenRouter,
		clients.DataForSEO,
		cfg.AnalysisModel,
		reposet.CompanyAnalysis,
		reposet.LinkedinPost,
		reposet.GeneratedPost,
	)

	keywordService := services.NewKeywordResearchService(
		db,
		log,
		clients.DataForSEO,
		clients.Cache,
		cfg.CacheTTL,
		reposet.Keyword,
	)

	researchService := services.NewCompanyResearchService(
		db,
		log,
		clients.XAI,
		clients.Anthropic,
		reposet.CompanyAnalysis,
	)

	return Services{
		Auth:            authService,
		CompanyIntel:    intelService,
		KeywordResearch: keywordService,
		CompanyResearch: researchService,
	}, nil
}
