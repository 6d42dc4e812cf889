package app

import (
	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
)

type Repos struct {
	SessionToken    repos.SessionTokenRepo
	CompanyAnalysis repos.CompanyAnalysisRepo
	LinkedinPost    repos.LinkedinPostRepo
	GeneratedPost   repos.GeneratedPostRepo
	Keyword         repos.KeywordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		SessionToken:    repos.NewSessionTokenRepo(db, log),
		CompanyAnalysis: repos.NewCompanyAnalysisRepo(db, log),
		LinkedinPost:    repos.NewLinkedinPostRepo(db, log),
		GeneratedPost:   repos.NewGeneratedPostRepo(db, log),
		Keyword:         repos.NewKeywordRepo(db, log),
	}
}
