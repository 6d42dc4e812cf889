package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/httpx"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://fresh-linkedin-profile-data.p.rapidapi.com"
	rapidAPIHost   = "fresh-linkedin-profile-data.p.rapidapi.com"
)

// CompanyPosts is one fetch of a company's recent posts: the decoded post
// list plus the raw payload for persistence.
type CompanyPosts struct {
	Posts []map[string]any
	Raw   json.RawMessage
}

// Client fetches LinkedIn company posts through the RapidAPI
// fresh-linkedin-profile-data provider.
type Client interface {
	FetchCompanyPosts(ctx context.Context, linkedinURL string) (*CompanyPosts, error)
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
		return nil, fmt.Errorf("missing RapidAPI key")
	}
	clientLog := log.With("client", "LinkedinClient")
	return &client{
		log:     clientLog,
		baseURL: baseURL,
		apiKey:  apiKey,
		// The provider can be slow on large companies.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		maxRetries: 1,
	}, nil
}

func (c *client) FetchCompanyPosts(ctx context.Context, linkedinURL string) (*CompanyPosts, error) {
	query := url.Values{}
	query.Set("linkedin_url", linkedinURL)
	query.Set("start", "0")
	query.Set("sort_by", "recent")
	endpoint := c.baseURL + "/get-company-posts?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", rapidAPIHost)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = apierr.FromTransport(err)
			if !httpx.IsRetryableError(lastErr) || ctx.Err() != nil {
				return nil, lastErr
			}
			time.Sleep(httpx.JitterSleep(time.Second))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, apierr.Malformed(readErr)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = apierr.FromStatus(resp.StatusCode, fmt.Errorf("linkedin posts fetch: HTTP %d", resp.StatusCode))
			if httpx.IsRetryableHTTPStatus(resp.StatusCode) && attempt < c.maxRetries {
				time.Sleep(httpx.RetryAfterDuration(resp, time.Second, 30*time.Second))
				continue
			}
			return nil, lastErr
		}

		var decoded struct {
			Data []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, apierr.Malformed(err)
		}
		return &CompanyPosts{Posts: decoded.Data, Raw: body}, nil
	}
	return nil, lastErr
}
