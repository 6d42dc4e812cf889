package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sambasci/marketing-tools-backend/internal/handlers"
	"github.com/sambasci/marketing-tools-backend/internal/middleware"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/services"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

// newTestRouter wires the full stack against an in-memory store, with no
// external API clients configured.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.SessionToken{},
		&types.CompanyAnalysis{},
		&types.LinkedinPost{},
		&types.GeneratedPost{},
		&types.Keyword{},
	))

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	sessionRepo := repos.NewSessionTokenRepo(db, log)
	analysisRepo := repos.NewCompanyAnalysisRepo(db, log)
	postRepo := repos.NewLinkedinPostRepo(db, log)
	generatedRepo := repos.NewGeneratedPostRepo(db, log)
	keywordRepo := repos.NewKeywordRepo(db, log)

	authService, err := services.NewAuthService(db, log, sessionRepo, "admin", "hunter2", "test-secret", time.Hour)
	require.NoError(t, err)
	intelService := services.NewCompanyIntelService(db, log, nil, nil, nil, "", analysisRepo, postRepo, generatedRepo)
	keywordService := services.NewKeywordResearchService(db, log, nil, nil, 0, keywordRepo)
	researchService := services.NewCompanyResearchService(db, log, nil, nil, analysisRepo)

	return NewRouter(RouterConfig{
		AuthHandler:      handlers.NewAuthHandler(authService),
		AuthMiddleware:   middleware.NewAuthMiddleware(log, authService),
		DashboardHandler: handlers.NewDashboardHandler(),
		CompanyHandler:   handlers.NewCompanyHandler(log, intelService),
		KeywordHandler:   handlers.NewKeywordHandler(log, keywordService),
		ResearchHandler:  handlers.NewResearchHandler(log, researchService),
	})
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	rec := doRequest(router, http.MethodPost, "/api/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealthcheckIsPublic(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDashboardRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// No tool content leaks on the unauthenticated path.
	assert.NotContains(t, rec.Body.String(), "Keyword Research")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/login", "", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/login", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnlocksDashboard(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	rec := doRequest(router, http.MethodGet, "/api/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "LinkedIn Analysis")
	assert.Contains(t, body, "Keyword Research")
	assert.Contains(t, body, "Company Research")
}

func TestViewRoutesByAppParam(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	rec := doRequest(router, http.MethodGet, "/api/view?app=keywords", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		View string `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "keywords", resp.View)

	// Unknown tools fall back to the dashboard instead of erroring.
	rec = doRequest(router, http.MethodGet, "/api/view?app=doesnotexist", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dashboard", resp.View)
}

func TestQueryTokenFallback(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	rec := doRequest(router, http.MethodGet, "/api/dashboard?token="+token, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	rec := doRequest(router, http.MethodPost, "/api/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/dashboard", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestKeywordLookupWithoutProviderConfigured(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	rec := doRequest(router, http.MethodGet, "/api/keywords/volume?keyword=seo", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATAFORSEO_LOGIN")
}

func TestResearchEndpointsReadStoredData(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "hunter2")

	// No research providers configured: the write path reports it.
	rec := doRequest(router, http.MethodPost, "/api/research/company", token, `{"linkedin_url":"https://linkedin.com/company/acme"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Reads still work against the (empty) store.
	rec = doRequest(router, http.MethodGet, "/api/research/competitors?linkedin_url=https://linkedin.com/company/acme", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/linkedin/companies", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
