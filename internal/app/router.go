package app

import (
	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:      handlerset.Auth,
		AuthMiddleware:   middlewareset.Auth,
		DashboardHandler: handlerset.Dashboard,
		CompanyHandler:   handlerset.Company,
		KeywordHandler:   handlerset.Keyword,
		ResearchHandler:  handlerset.Research,
	})
}
