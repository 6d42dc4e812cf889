package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/httpx"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

const (
	defaultBaseURL      = "https://api.dataforseo.com"
	pathSearchVolume    = "/v3/keywords_data/google_ads/search_volume/live"
	pathSuggestions     = "/v3/keywords_data/google_ads/keywords_for_keywords/live"
	pathKeywordsForSite = "/v3/keywords_data/google_ads/keywords_for_site/live"
	pathRankedKeywords  = "/v3/dataforseo_labs/google/ranked_keywords/live"

	// United States / English, matching the dashboard's fixed market.
	locationCode = 2840
	languageCode = "en"

	taskStatusOK = 20000
)

// MonthlySearch is one month of historical volume.
type MonthlySearch struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	SearchVolume int `json:"search_volume"`
}

// KeywordMetrics is one keyword item as returned by the Google Ads endpoints.
type KeywordMetrics struct {
	Keyword          string          `json:"keyword"`
	SearchVolume     int             `json:"search_volume"`
	CompetitionLevel string          `json:"competition"`
	CompetitionIndex *int            `json:"competition_index"`
	CPC              float64         `json:"cpc"`
	MonthlySearches  []MonthlySearch `json:"monthly_searches"`
}

// Competition maps the 0-100 competition index onto the 0-1 scale the scoring
// formulas use; unknown competition counts as medium.
func (m KeywordMetrics) Competition() float64 {
	if m.CompetitionIndex == nil || *m.CompetitionIndex == 0 {
		return 0.5
	}
	return float64(*m.CompetitionIndex) / 100.0
}

// RankedKeywordsResult is the ranked-keywords payload for one domain.
type RankedKeywordsResult struct {
	Target     string          `json:"target"`
	ItemsCount int             `json:"items_count"`
	Items      json.RawMessage `json:"items"`
}

// LLMAnswer is one AI-perception prompt/response pair.
type LLMAnswer struct {
	Prompt     string `json:"prompt"`
	Response   string `json:"response"`
	TokensUsed int    `json:"tokens_used"`
	Model      string `json:"model"`
}

// Client calls the DataForSEO v3 API with basic-auth credentials.
type Client interface {
	SearchVolume(ctx context.Context, keyword string) (*KeywordMetrics, json.RawMessage, error)
	KeywordSuggestions(ctx context.Context, seed string, limit int) ([]KeywordMetrics, error)
	KeywordsForSite(ctx context.Context, site string, limit int) ([]KeywordMetrics, error)
	RankedKeywords(ctx context.Context, domain string, limit int, includePaid bool, maxPosition *int) (*RankedKeywordsResult, error)
	LLMResponse(ctx context.Context, provider, prompt string) (*LLMAnswer, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	login      string
	password   string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger, login, password string) (Client, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("missing DataForSEO credentials")
	}
	clientLog := log.With("client", "DataForSEOClient")
	return &client{
		log:        clientLog,
		baseURL:    defaultBaseURL,
		login:      login,
		password:   password,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		maxRetries: 2,
	}, nil
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(log *logger.Logger, login, password, baseURL string) (Client, error) {
	c, err := NewClient(log, login, password)
	if err != nil {
		return nil, err
	}
	impl := c.(*client)
	impl.baseURL = baseURL
	return impl, nil
}

type taskEnvelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode    int               `json:"status_code"`
		StatusMessage string            `json:"status_message"`
		Result        []json.RawMessage `json:"result"`
	} `json:"tasks"`
}

// post issues one live request and returns the first task's result items
// plus the raw response body.
func (c *client) post(ctx context.Context, path string, payload any) ([]json.RawMessage, json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, nil, err
		}
		req.SetBasicAuth(c.login, c.password)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = apierr.FromTransport(err)
			if !httpx.IsRetryableError(lastErr) || ctx.Err() != nil {
				return nil, nil, lastErr
			}
			time.Sleep(httpx.JitterSleep(time.Second))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, nil, apierr.Malformed(readErr)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = apierr.FromStatus(resp.StatusCode, fmt.Errorf("dataforseo %s: HTTP %d", path, resp.StatusCode))
			if httpx.IsRetryableHTTPStatus(resp.StatusCode) && attempt < c.maxRetries {
				time.Sleep(httpx.RetryAfterDuration(resp, time.Second, 30*time.Second))
				continue
			}
			return nil, nil, lastErr
		}

		var env taskEnvelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, nil, apierr.Malformed(err)
		}
		if len(env.Tasks) == 0 {
			return nil, nil, apierr.Malformed(fmt.Errorf("dataforseo %s: empty task list", path))
		}
		task := env.Tasks[0]
		if task.StatusCode != taskStatusOK {
			return nil, nil, apierr.New(0, "", fmt.Errorf("dataforseo %s: task %d %s", path, task.StatusCode, task.StatusMessage))
		}
		return task.Result, respBody, nil
	}
	return nil, nil, lastErr
}

func (c *client) SearchVolume(ctx context.Context, keyword string) (*KeywordMetrics, json.RawMessage, error) {
	payload := []map[string]any{{
		"keywords":      []string{keyword},
		"language_code": languageCode,
		"location_code": locationCode,
	}}
	results, raw, err := c.post(ctx, pathSearchVolume, payload)
	if err != nil {
		return nil, nil, err
	}
	if len(results) == 0 {
		return nil, nil, apierr.Malformed(fmt.Errorf("no data found for %q", keyword))
	}
	var metrics KeywordMetrics
	if err := json.Unmarshal(results[0], &metrics); err != nil {
		return nil, nil, apierr.Malformed(err)
	}
	return &metrics, raw, nil
}

func (c *client) KeywordSuggestions(ctx context.Context, seed string, limit int) ([]KeywordMetrics, error) {
	if limit <= 0 {
		limit = 100
	}
	payload := []map[string]any{{
		"keywords":      []string{seed},
		"language_code": languageCode,
		"location_code": locationCode,
		"limit":         limit,
	}}
	results, _, err := c.post(ctx, pathSuggestions, payload)
	if err != nil {
		return nil, err
	}
	return decodeKeywordItems(results, limit)
}

func (c *client) KeywordsForSite(ctx context.Context, site string, limit int) ([]KeywordMetrics, error) {
	if limit <= 0 {
		limit = 100
	}
	payload := []map[string]any{{
		"target":        site,
		"language_code": languageCode,
		"location_code": locationCode,
		"limit":         limit,
	}}
	results, _, err := c.post(ctx, pathKeywordsForSite, payload)
	if err != nil {
		return nil, err
	}
	return decodeKeywordItems(results, limit)
}

func decodeKeywordItems(results []json.RawMessage, limit int) ([]KeywordMetrics, error) {
	items := make([]KeywordMetrics, 0, len(results))
	for _, r := range results {
		var m KeywordMetrics
		if err := json.Unmarshal(r, &m); err != nil {
			return nil, apierr.Malformed(err)
		}
		items = append(items, m)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (c *client) RankedKeywords(ctx context.Context, domain string, limit int, includePaid bool, maxPosition *int) (*RankedKeywordsResult, error) {
	if limit <= 0 {
		limit = 500
	}
	task := map[string]any{
		"target":        domain,
		"language_code": languageCode,
		"location_code": locationCode,
		"limit":         limit,
	}
	filters := []any{[]any{"ranked_serp_element.serp_item.type", "=", "organic"}}
	if includePaid {
		filters = nil
	}
	if maxPosition != nil {
		posFilter := []any{"ranked_serp_element.serp_item.rank_absolute", "<=", *maxPosition}
		if filters != nil {
			filters = append(filters, "and", posFilter)
		} else {
			filters = []any{posFilter}
		}
	}
	if filters != nil {
		task["filters"] = filters
	}

	results, _, err := c.post(ctx, pathRankedKeywords, []map[string]any{task})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apierr.Malformed(fmt.Errorf("no ranked keywords for %q", domain))
	}
	var out RankedKeywordsResult
	if err := json.Unmarshal(results[0], &out); err != nil {
		return nil, apierr.Malformed(err)
	}
	return &out, nil
}

var llmEndpoints = map[string]struct {
	path  string
	model string
}{
	"chatgpt":    {"/v3/ai_optimization/chat_gpt/llm_responses/live", "gpt-4o-mini"},
	"claude":     {"/v3/ai_optimization/claude/llm_responses/live", "claude-sonnet-4-0"},
	"gemini":     {"/v3/ai_optimization/gemini/llm_responses/live", "gemini-2.0-flash-exp"},
	"perplexity": {"/v3/ai_optimization/perplexity/llm_responses/live", "sonar-pro"},
}

func (c *client) LLMResponse(ctx context.Context, provider, prompt string) (*LLMAnswer, error) {
	ep, ok := llmEndpoints[provider]
	if !ok {
		return nil, fmt.Errorf("invalid LLM provider %q: choose chatgpt, claude, gemini, or perplexity", provider)
	}

	payload := []map[string]any{{
		"user_prompt":       prompt,
		"model_name":        ep.model,
		"max_output_tokens": 500,
		"temperature":       0.7,
	}}
	results, _, err := c.post(ctx, ep.path, payload)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apierr.Malformed(fmt.Errorf("no LLM response for provider %q", provider))
	}

	var decoded struct {
		ModelName      string `json:"model_name"`
		OutputTokens   int    `json:"output_tokens"`
		NewMessageData struct {
			Message string `json:"message"`
		} `json:"new_message_data"`
	}
	if err := json.Unmarshal(results[0], &decoded); err != nil {
		return nil, apierr.Malformed(err)
	}
	model := decoded.ModelName
	if model == "" {
		model = ep.model
	}
	return &LLMAnswer{
		Prompt:     prompt,
		Response:   decoded.NewMessageData.Message,
		TokensUsed: decoded.OutputTokens,
		Model:      model,
	}, nil
}
