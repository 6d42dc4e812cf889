package xai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://api.x.ai/v1"
	researchModel  = "grok-4-fast"
)

// ResearchResult is the structured document stored in the grok_research
// column.
type ResearchResult struct {
	Response    string   `json:"response"`
	Citations   []string `json:"citations"`
	TotalTokens int      `json:"total_tokens"`
	Model       string   `json:"model"`
}

// Client runs Grok company research through the x.ai OpenAI-compatible API.
type Client interface {
	Research(ctx context.Context, companyURL, companyName string, competitors []string) (*ResearchResult, error)
}

type client struct {
	log *logger.Logger
	api *openai.Client
}

func NewClient(log *logger.Logger, apiKey string) (Client, error) {
	return NewClientWithBaseURL(log, apiKey, defaultBaseURL)
}

func NewClientWithBaseURL(log *logger.Logger, apiKey, baseURL string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing xAI API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	clientLog := log.With("client", "XAIClient")
	return &client{log: clientLog, api: openai.NewClientWithConfig(cfg)}, nil
}

func (c *client) Research(ctx context.Context, companyURL, companyName string, competitors []string) (*ResearchResult, error) {
	prompt := buildResearchPrompt(companyURL, companyName, competitors)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: researchModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, apierr.FromStatus(apiErr.HTTPStatusCode, err)
		}
		return nil, apierr.FromTransport(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apierr.Malformed(fmt.Errorf("no research response for %q", companyName))
	}

	return &ResearchResult{
		Response:    resp.Choices[0].Message.Content,
		Citations:   []string{},
		TotalTokens: resp.Usage.TotalTokens,
		Model:       researchModel,
	}, nil
}

func buildResearchPrompt(companyURL, companyName string, competitors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research %s (%s) comprehensively.", companyName, companyURL)
	valid := make([]string, 0, len(competitors))
	for _, comp := range competitors {
		if strings.TrimSpace(comp) != "" {
			valid = append(valid, comp)
		}
	}
	if len(valid) > 0 {
		b.WriteString("\n\nKey competitors to research:")
		for _, comp := range valid {
			fmt.Fprintf(&b, "\n- %s", comp)
		}
	}
	b.WriteString(`

Provide detailed information on:
1. Company overview (mission, products/services, team size, stage)
2. Social media presence (especially on X/Twitter - follower counts, engagement, content themes)
3. Industry trends and discussions related to this company
4. Competitive landscape and how they compare to competitors
5. Recent news, announcements, or significant mentions
6. Community sentiment and key discussions`)
	return b.String()
}
