package app

import (
	"github.com/sambasci/marketing-tools-backend/internal/handlers"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Company   *handlers.CompanyHandler
	Keyword   *handlers.KeywordHandler
	Research  *handlers.ResearchHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(serviceset.Auth),
		Dashboard: handlers.NewDashboardHandler(),
		Company:   handlers.NewCompanyHandler(log, serviceset.CompanyIntel),
		Keyword:   handlers.NewKeywordHandler(log, serviceset.KeywordResearch),
		Research:  handlers.NewResearchHandler(log, serviceset.CompanyResearch),
	}
}
