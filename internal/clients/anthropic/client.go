package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/httpx"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	webFetchBeta   = "web-fetch-2025-09-10"
	researchModel  = "claude-sonnet-4-5"
)

// ResearchResult is the structured document stored in the claude_research
// column.
type ResearchResult struct {
	Response    string   `json:"response"`
	Citations   []string `json:"citations"`
	TotalTokens int      `json:"total_tokens"`
	Model       string   `json:"model"`
}

// Client calls the Anthropic Messages API with web fetch/search tools.
type Client interface {
	Research(ctx context.Context, companyURL, companyName string, competitors []string) (*ResearchResult, error)
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger, apiKey string) (Client, error) {
	return NewClientWithBaseURL(log, apiKey, defaultBaseURL)
}

func NewClientWithBaseURL(log *logger.Logger, apiKey, baseURL string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Anthropic API key")
	}
	clientLog := log.With("client", "AnthropicClient")
	return &client{
		log:        clientLog,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		maxRetries: 1,
	}, nil
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []messageParam   `json:"messages"`
	Tools     []map[string]any `json:"tools,omitempty"`
}

type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type      string `json:"type"`
		Text      string `json:"text"`
		Citations []struct {
			URL string `json:"url"`
		} `json:"citations"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *client) send(ctx context.Context, reqBody messagesRequest, beta string) (*messagesResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)
		req.Header.Set("Content-Type", "application/json")
		if beta != "" {
			req.Header.Set("anthropic-beta", beta)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = apierr.FromTransport(err)
			if !httpx.IsRetryableError(lastErr) || ctx.Err() != nil {
				return nil, lastErr
			}
			time.Sleep(httpx.JitterSleep(time.Second))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, apierr.Malformed(readErr)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = apierr.FromStatus(resp.StatusCode, fmt.Errorf("anthropic messages: HTTP %d", resp.StatusCode))
			if httpx.IsRetryableHTTPStatus(resp.StatusCode) && attempt < c.maxRetries {
				time.Sleep(httpx.RetryAfterDuration(resp, 2*time.Second, 60*time.Second))
				continue
			}
			return nil, lastErr
		}

		var decoded messagesResponse
		if err := json.Unmarshal(respBody, &decoded); err != nil {
			return nil, apierr.Malformed(err)
		}
		return &decoded, nil
	}
	return nil, lastErr
}

func (c *client) Research(ctx context.Context, companyURL, companyName string, competitors []string) (*ResearchResult, error) {
	prompt := buildResearchPrompt(companyURL, companyName, competitors)

	resp, err := c.send(ctx, messagesRequest{
		Model:     researchModel,
		MaxTokens: 4096,
		Messages:  []messageParam{{Role: "user", Content: prompt}},
		Tools: []map[string]any{
			{
				"type":      "web_fetch_20250910",
				"name":      "web_fetch",
				"max_uses":  10,
				"citations": map[string]any{"enabled": true},
			},
			{
				"type":     "web_search_20250305",
				"name":     "web_search",
				"max_uses": 10,
			},
		},
	}, webFetchBeta)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	seen := map[string]bool{}
	citations := []string{}
	for _, block := range resp.Content {
		text.WriteString(block.Text)
		for _, cit := range block.Citations {
			if cit.URL != "" && !seen[cit.URL] {
				seen[cit.URL] = true
				citations = append(citations, cit.URL)
			}
		}
	}

	return &ResearchResult{
		Response:    text.String(),
		Citations:   citations,
		TotalTokens: resp.Usage.InputTokens + resp.Usage.OutputTokens,
		Model:       researchModel,
	}, nil
}

func (c *client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	resp, err := c.send(ctx, messagesRequest{
		Model:     researchModel,
		MaxTokens: maxTokens,
		Messages:  []messageParam{{Role: "user", Content: prompt}},
	}, "")
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		text.WriteString(block.Text)
	}
	if text.Len() == 0 {
		return "", apierr.Malformed(fmt.Errorf("empty completion"))
	}
	return text.String(), nil
}

func buildResearchPrompt(companyURL, companyName string, competitors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research %s (%s) comprehensively using web fetch and web search.", companyName, companyURL)
	valid := make([]string, 0, len(competitors))
	for _, comp := range competitors {
		if strings.TrimSpace(comp) != "" {
			valid = append(valid, comp)
		}
	}
	if len(valid) > 0 {
		b.WriteString("\n\nKey competitors to analyze:")
		for _, comp := range valid {
			fmt.Fprintf(&b, "\n- %s", comp)
		}
	}
	b.WriteString(`

Please analyze:
1. Fetch the company website and extract: mission statement, core values, products/services, team information, recent blog posts
2. Search for industry reports and trends related to this company's sector
3. Find discussions on Reddit, Quora, or forums about this company or industry
4. Research competitors and their positioning
5. Identify gaps, opportunities, and strategic insights

Provide a detailed analysis with citations.`)
	return b.String()
}
