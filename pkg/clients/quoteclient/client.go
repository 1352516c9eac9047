package quoteclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"

	// Prompt is the fixed request sent on every call
	Prompt = "Generate a short, powerful motivational quote for a runner. Make it inspiring and under 20 words."

	// FallbackQuote is returned whenever the service can't produce a quote
	FallbackQuote = "The journey of a thousand miles begins with a single step. Keep going!"
)

var errNoText = errors.New("response contained no text")

// Fetcher returns a motivational quote, never an error
type Fetcher interface {
	FetchMotivationalQuote(ctx context.Context) string
}

// Option customises the underlying Gemini client
type Option func(*genai.ClientConfig)

// WithEndpoint overrides the API base URL
func WithEndpoint(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = client
	}
}

// Client wraps the Gemini API
type Client struct {
	genai  *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a quote client. Without an API key it returns an error so
// callers can fall back to Disabled.
func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for quote service")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		genai:  client,
		model:  model,
		logger: logger,
	}, nil
}

// FetchMotivationalQuote asks the model for a quote. Any failure is logged
// and FallbackQuote returned instead.
func (c *Client) FetchMotivationalQuote(ctx context.Context) string {
	quote, err := c.generate(ctx)
	if err != nil {
		c.logger.Error("Error fetching motivational quote", zap.String("model", c.model), zap.Error(err))
		return FallbackQuote
	}
	return quote
}

func (c *Client) generate(ctx context.Context) (string, error) {
	c.logger.Debug("Requesting motivational quote", zap.String("model", c.model))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(Prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

// Disabled always returns the fallback quote
type Disabled struct{}

// FetchMotivationalQuote returns FallbackQuote
func (Disabled) FetchMotivationalQuote(ctx context.Context) string {
	return FallbackQuote
}
