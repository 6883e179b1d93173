// Package extract pulls payoff terms out of raw term-sheet text with an
// LLM provider and returns them as a termsheet.Document. Providers are
// plain net/http clients; API keys come from the environment only.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/banachtech/phoenix/config"
)

// Request is one completion call.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Provider is a minimal chat-completion client.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

type clientConfig struct {
	baseURL string
	model   string
	client  *http.Client
}

// Option configures a provider client.
type Option func(*clientConfig)

// WithBaseURL points the client at a different endpoint, e.g. a proxy or
// a test server.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithTimeout overrides the default 5 minute HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.client.Timeout = timeout
	}
}

func newClientConfig(baseURL, model string, opts ...Option) clientConfig {
	c := clientConfig{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Environment variables holding provider API keys.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvDeepSeekKey  = "DEEPSEEK_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// NewProvider builds the provider named by cfg, reading its API key from
// the environment.
func NewProvider(cfg config.Extraction) (Provider, error) {
	var opts []Option
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		key := os.Getenv(EnvOpenAIKey)
		if key == "" {
			return nil, fmt.Errorf("%s not set", EnvOpenAIKey)
		}
		return NewOpenAI(key, opts...), nil
	case "deepseek":
		key := os.Getenv(EnvDeepSeekKey)
		if key == "" {
			return nil, fmt.Errorf("%s not set", EnvDeepSeekKey)
		}
		return NewDeepSeek(key, opts...), nil
	case "anthropic":
		key := os.Getenv(EnvAnthropicKey)
		if key == "" {
			return nil, fmt.Errorf("%s not set", EnvAnthropicKey)
		}
		return NewAnthropic(key, opts...), nil
	}
	return nil, fmt.Errorf("unsupported extraction provider %q", cfg.Provider)
}
