package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config configures the chat-completions client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

// Client implements llm.Generator using OpenAI Chat Completions.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{
		http:        httpClient,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: c.temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	body := resp.Body()
	if resp.IsError() {
		return "", &llm.StatusError{
			StatusCode: resp.StatusCode(),
			Message:    gjson.GetBytes(body, "error.message").String(),
		}
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("openai response parse: invalid JSON")
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String())
	if content == "" {
		return "", fmt.Errorf("openai: %w", llm.ErrEmptyCompletion)
	}

	if usage := gjson.GetBytes(body, "usage"); usage.Exists() {
		telemetry.Debug("llm.usage", map[string]any{
			"provider":          "openai",
			"model":             c.model,
			"prompt_kind":       llm.PromptKindFromContext(ctx),
			"prompt_tokens":     usage.Get("prompt_tokens").Int(),
			"completion_tokens": usage.Get("completion_tokens").Int(),
			"total_tokens":      usage.Get("total_tokens").Int(),
		})
	}
	return content, nil
}

var _ llm.Generator = (*Client)(nil)
