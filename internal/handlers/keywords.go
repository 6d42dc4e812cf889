package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/services"
)

var errMissingIdentifier = errors.New("company_url or linkedin_url is required")

type KeywordHandler struct {
	log            *logger.Logger
	keywordService services.KeywordResearchService
}

func NewKeywordHandler(log *logger.Logger, keywordService services.KeywordResearchService) *KeywordHandler {
	return &KeywordHandler{
		log:            log.With("handler", "KeywordHandler"),
		keywordService: keywordService,
	}
}

func (kh *KeywordHandler) Lookup(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("keyword is required"))
		return
	}
	report, err := kh.keywordService.Lookup(c.Request.Context(), keyword)
	if err != nil {
		kh.log.Error("Keyword lookup failed", "keyword", keyword, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"keyword": report})
}

func (kh *KeywordHandler) Suggestions(c *gin.Context) {
	seed := c.Query("seed")
	if seed == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("seed keyword is required"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := kh.keywordService.Suggestions(c.Request.Context(), seed, limit)
	if err != nil {
		kh.log.Error("Keyword suggestions failed", "seed", seed, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"keywords": reports})
}

func (kh *KeywordHandler) ForSite(c *gin.Context) {
	site := c.Query("site")
	if site == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("site is required"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := kh.keywordService.ForSite(c.Request.Context(), site, limit)
	if err != nil {
		kh.log.Error("Keywords for site failed", "site", site, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"keywords": reports})
}

func (kh *KeywordHandler) Save(c *gin.Context) {
	var req struct {
		Keywords []services.KeywordReport `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := kh.keywordService.Save(c.Request.Context(), req.Keywords); err != nil {
		kh.log.Error("Keyword save failed", "count", len(req.Keywords), "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": len(req.Keywords)})
}

func (kh *KeywordHandler) ListSaved(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	keywords, err := kh.keywordService.ListSaved(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"keywords": keywords})
}
