// Package completion wraps the language model completion API used by the
// chat relay.
package completion

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tbourn/go-booking-backend/internal/metrics"
)

// DefaultModel is an instruct model served by the legacy completions API.
const DefaultModel = openai.GPT3Dot5TurboInstruct

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("completion provider not configured")
	// ErrEmptyCompletion is returned when the provider answers with no text.
	ErrEmptyCompletion = errors.New("completion returned no text")
)

// Options tune the client. The zero value talks to api.openai.com.
type Options struct {
	BaseURL    string // e.g. "http://localhost:8081/v1"
	Model      string
	HTTPClient *http.Client
}

// Client sends a prompt and returns the generated text.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a Client for apiKey. With an empty key every call returns
// ErrNotConfigured.
func New(apiKey string, opts Options) *Client {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(apiKey) == "" {
		return &Client{model: model}
	}
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends prompt with a budget of maxTokens and returns the first
// choice, trimmed.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}
	start := time.Now()
	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	status := "success"
	defer func() { metrics.RecordCompletionDuration(status, time.Since(start).Seconds()) }()

	if err != nil {
		status = "failure"
		return "", err
	}
	if len(resp.Choices) == 0 {
		status = "failure"
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Text)
	if text == "" {
		status = "failure"
		return "", ErrEmptyCompletion
	}
	return text, nil
}
