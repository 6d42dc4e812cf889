package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/services"
)

type ResearchHandler struct {
	log             *logger.Logger
	researchService services.CompanyResearchService
}

func NewResearchHandler(log *logger.Logger, researchService services.CompanyResearchService) *ResearchHandler {
	return &ResearchHandler{
		log:             log.With("handler", "ResearchHandler"),
		researchService: researchService,
	}
}

func (rh *ResearchHandler) ResearchCompany(c *gin.Context) {
	var req struct {
		LinkedinURL string   `json:"linkedin_url"`
		WebsiteURL  string   `json:"website_url"`
		CompanyName string   `json:"company_name"`
		Competitors []string `json:"competitors"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	outcome, err := rh.researchService.ResearchCompany(c.Request.Context(), req.LinkedinURL, req.WebsiteURL, req.CompanyName, req.Competitors)
	if err != nil {
		rh.log.Error("Company research failed", "linkedin_url", req.LinkedinURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, outcome)
}

func (rh *ResearchHandler) ResearchCompetitor(c *gin.Context) {
	var req struct {
		MainLinkedinURL       string `json:"main_linkedin_url"`
		CompetitorLinkedinURL string `json:"competitor_linkedin_url"`
		CompetitorName        string `json:"competitor_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	outcome, err := rh.researchService.ResearchCompetitor(c.Request.Context(), req.MainLinkedinURL, req.CompetitorLinkedinURL, req.CompetitorName)
	if err != nil {
		rh.log.Error("Competitor research failed", "competitor", req.CompetitorLinkedinURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, outcome)
}

func (rh *ResearchHandler) Competitors(c *gin.Context) {
	mainURL := c.Query("linkedin_url")
	if mainURL == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("linkedin_url is required"))
		return
	}
	competitors, err := rh.researchService.Competitors(c.Request.Context(), mainURL)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"competitors": competitors})
}

func (rh *ResearchHandler) SynthesizeReport(c *gin.Context) {
	var req struct {
		LinkedinURL string `json:"linkedin_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	report, err := rh.researchService.SynthesizeReport(c.Request.Context(), req.LinkedinURL)
	if err != nil {
		rh.log.Error("Report synthesis failed", "linkedin_url", req.LinkedinURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}
