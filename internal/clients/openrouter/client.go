package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the analysis model the dashboard runs by default.
	DefaultModel = "anthropic/claude-haiku-4.5"
)

// Client runs chat completions against OpenRouter (OpenAI-compatible API).
type Client interface {
	Chat(ctx context.Context, model, prompt string, maxTokens int) (string, error)
	ChatJSON(ctx context.Context, model, prompt string, maxTokens int) (map[string]any, error)
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
		return nil, fmt.Errorf("missing OpenRouter API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	clientLog := log.With("client", "OpenRouterClient")
	return &client{log: clientLog, api: openai.NewClientWithConfig(cfg)}, nil
}

func (c *client) Chat(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
		// Lower temperature for consistent analysis output.
		Temperature: 0.3,
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apierr.Malformed(fmt.Errorf("no response from model %q", model))
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON runs Chat and parses the reply as a JSON document, tolerating
// markdown code fences around the payload.
func (c *client) ChatJSON(ctx context.Context, model, prompt string, maxTokens int) (map[string]any, error) {
	content, err := c.Chat(ctx, model, prompt, maxTokens)
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, apierr.Malformed(fmt.Errorf("model %q returned non-JSON content: %w", model, err))
	}
	return parsed, nil
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.FromStatus(apiErr.HTTPStatusCode, err)
	}
	return apierr.FromTransport(err)
}
