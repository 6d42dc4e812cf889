package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/handlers"
	"github.com/sambasci/marketing-tools-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	DashboardHandler *handlers.DashboardHandler
	CompanyHandler   *handlers.CompanyHandler
	KeywordHandler   *handlers.KeywordHandler
	ResearchHandler  *handlers.ResearchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/api/logout", cfg.AuthHandler.Logout)
	// Navigation
	protected.GET("/api/dashboard", cfg.DashboardHandler.Dashboard)
	protected.GET("/api/view", cfg.DashboardHandler.View)
	// LinkedIn analysis
	protected.POST("/api/linkedin/onboard", cfg.CompanyHandler.Onboard)
	protected.POST("/api/linkedin/generate", cfg.CompanyHandler.GenerateContent)
	protected.GET("/api/linkedin/companies", cfg.CompanyHandler.List)
	protected.GET("/api/linkedin/company", cfg.CompanyHandler.Get)
	protected.DELETE("/api/linkedin/company", cfg.CompanyHandler.Delete)
	protected.GET("/api/linkedin/generated", cfg.CompanyHandler.ListGenerated)
	// Keyword research
	protected.GET("/api/keywords/volume", cfg.KeywordHandler.Lookup)
	protected.GET("/api/keywords/suggestions", cfg.KeywordHandler.Suggestions)
	protected.GET("/api/keywords/site", cfg.KeywordHandler.ForSite)
	protected.POST("/api/keywords/save", cfg.KeywordHandler.Save)
	protected.GET("/api/keywords/saved", cfg.KeywordHandler.ListSaved)
	// Company research
	protected.POST("/api/research/company", cfg.ResearchHandler.ResearchCompany)
	protected.POST("/api/research/competitor", cfg.ResearchHandler.ResearchCompetitor)
	protected.GET("/api/research/competitors", cfg.ResearchHandler.Competitors)
	protected.POST("/api/research/report", cfg.ResearchHandler.SynthesizeReport)

	return router
}
