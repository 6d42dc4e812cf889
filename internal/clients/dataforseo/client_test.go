package dataforseo

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newFakeServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClientWithBaseURL(newTestLogger(), "login", "password", srv.URL)
	require.NoError(t, err)
	return srv, c
}

const searchVolumeBody = `{
  "status_code": 20000,
  "tasks": [{
    "status_code": 20000,
    "status_message": "Ok.",
    "result": [{
      "keyword": "seo tools",
      "search_volume": 4400,
      "competition": "HIGH",
      "competition_index": 87,
      "cpc": 4.12,
      "monthly_searches": [
        {"year": 2025, "month": 7, "search_volume": 5400},
        {"year": 2025, "month": 6, "search_volume": 4100}
      ]
    }]
  }]
}`

func TestSearchVolumeParsesMetrics(t *testing.T) {
	_, c := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/keywords_data/google_ads/search_volume/live", r.URL.Path)

		// Basic auth carries the DataForSEO credentials.
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("login:password"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchVolumeBody))
	})

	metrics, raw, err := c.SearchVolume(context.Background(), "seo tools")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "seo tools", metrics.Keyword)
	assert.Equal(t, 4400, metrics.SearchVolume)
	assert.Equal(t, "HIGH", metrics.CompetitionLevel)
	require.NotNil(t, metrics.CompetitionIndex)
	assert.InDelta(t, 0.87, metrics.Competition(), 0.001)
	require.Len(t, metrics.MonthlySearches, 2)
	assert.Equal(t, 5400, metrics.MonthlySearches[0].SearchVolume)
}

func TestSearchVolumeRateLimited(t *testing.T) {
	_, c := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := c.SearchVolume(context.Background(), "seo tools")
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeRateLimited))
}

func TestSearchVolumeMalformedBody(t *testing.T) {
	_, c := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, _, err := c.SearchVolume(context.Background(), "seo tools")
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeMalformedResponse))
}

func TestSearchVolumeFailedTask(t *testing.T) {
	_, c := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":20000,"tasks":[{"status_code":40501,"status_message":"Invalid Field.","result":null}]}`))
	})

	_, _, err := c.SearchVolume(context.Background(), "seo tools")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40501")
}

func TestLLMResponseParsesMessage(t *testing.T) {
	_, c := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/ai_optimization/chat_gpt/llm_responses/live", r.URL.Path)
		_, _ = w.Write([]byte(`{
  "status_code": 20000,
  "tasks": [{
    "status_code": 20000,
    "result": [{
      "model_name": "gpt-4o-mini",
      "output_tokens": 42,
      "new_message_data": {"message": "Acme sells anvils."}
    }]
  }]
}`))
	})

	answer, err := c.LLMResponse(context.Background(), "chatgpt", "What does Acme sell?")
	require.NoError(t, err)
	assert.Equal(t, "Acme sells anvils.", answer.Response)
	assert.Equal(t, 42, answer.TokensUsed)
	assert.Equal(t, "gpt-4o-mini", answer.Model)
	assert.Equal(t, "What does Acme sell?", answer.Prompt)
}

func TestLLMResponseRejectsUnknownProvider(t *testing.T) {
	c, err := NewClient(newTestLogger(), "login", "password")
	require.NoError(t, err)

	_, err = c.LLMResponse(context.Background(), "copilot", "prompt")
	assert.ErrorContains(t, err, "invalid LLM provider")
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(newTestLogger(), "", "")
	assert.Error(t, err)
}
