package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/services"
)

type CompanyHandler struct {
	log          *logger.Logger
	intelService services.CompanyIntelService
}

func NewCompanyHandler(log *logger.Logger, intelService services.CompanyIntelService) *CompanyHandler {
	return &CompanyHandler{
		log:          log.With("handler", "CompanyHandler"),
		intelService: intelService,
	}
}

func (ch *CompanyHandler) Onboard(c *gin.Context) {
	var req struct {
		LinkedinURL string `json:"linkedin_url"`
		Domain      string `json:"domain"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ch.intelService.Onboard(c.Request.Context(), req.LinkedinURL, req.Domain)
	if err != nil {
		ch.log.Error("Onboard failed", "linkedin_url", req.LinkedinURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CompanyHandler) GenerateContent(c *gin.Context) {
	var req struct {
		CompanyURL  string `json:"company_url"`
		Topic       string `json:"topic"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	post, err := ch.intelService.GenerateContent(c.Request.Context(), req.CompanyURL, req.Topic, req.ContentType)
	if err != nil {
		ch.log.Error("GenerateContent failed", "company_url", req.CompanyURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

func (ch *CompanyHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	companies, err := ch.intelService.List(c.Request.Context(), limit)
	if err != nil {
		ch.log.Error("List failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"companies": companies})
}

func (ch *CompanyHandler) Get(c *gin.Context) {
	kind := repos.IdentifierCompanyURL
	value := c.Query("company_url")
	if value == "" {
		kind = repos.IdentifierLinkedinCompanyURL
		value = c.Query("linkedin_url")
	}
	if value == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errMissingIdentifier)
		return
	}
	company, err := ch.intelService.Get(c.Request.Context(), kind, value)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"company": company})
}

func (ch *CompanyHandler) Delete(c *gin.Context) {
	companyURL := c.Query("company_url")
	if companyURL == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errMissingIdentifier)
		return
	}
	if err := ch.intelService.Delete(c.Request.Context(), companyURL); err != nil {
		ch.log.Error("Delete failed", "company_url", companyURL, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}

func (ch *CompanyHandler) ListGenerated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, err := ch.intelService.ListGeneratedPosts(c.Request.Context(), c.Query("company_url"), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"posts": posts})
}
