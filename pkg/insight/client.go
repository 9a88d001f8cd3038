package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"tableflip.dev/daylog/pkg/activity"
)

const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "qwen2:7b"
	DefaultTimeout = 60 * time.Second
)

// ErrEmptyCompletion is returned when the endpoint answers without choices.
var ErrEmptyCompletion = errors.New("insight: empty completion")

// Client talks to an OpenAI-compatible chat completions endpoint, such as
// Ollama's /v1 root.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client

	api *openai.Client
}

// ClientOption customises a Client.
type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for baseURL, e.g. "http://localhost:11434/v1".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   DefaultModel,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.http
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

func (c *Client) Summary(ctx context.Context, r activity.Record) (string, error) {
	return c.Complete(ctx, SummaryPrompt(r))
}

func (c *Client) Insight(ctx context.Context, r activity.Record) (string, error) {
	return c.Complete(ctx, InsightPrompt(r))
}

// Complete sends p and returns the first choice, trimmed.
func (c *Client) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("insight: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
