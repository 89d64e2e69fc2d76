package llm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// DefaultTimeout bounds one chat round trip.
const DefaultTimeout = 2 * time.Minute

// Option configures a ChatClient.
type Option func(*ChatClient)

// WithLogger logs every chat call to log.
func WithLogger(log *zap.Logger) Option {
	return func(c *ChatClient) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout overrides DefaultTimeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *ChatClient) { c.timeout = d }
}

// NormalizeProvider maps a configured provider name and its aliases to one
// of the Provider constants. Empty means Copilot.
func NormalizeProvider(provider string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderCopilot, "github":
		return ProviderCopilot, nil
	case ProviderOllama:
		return ProviderOllama, nil
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return ProviderLMStudio, nil
	}
	return "", fmt.Errorf("unsupported LLM provider: %s", provider)
}

// NewClient creates a client for provider. Local providers fall back to
// their usual server URL when baseURL is empty.
func NewClient(provider, model, baseURL string, opts ...Option) (*ChatClient, error) {
	name, err := NormalizeProvider(provider)
	if err != nil {
		return nil, err
	}

	c := &ChatClient{provider: name, model: strings.TrimSpace(model), log: zap.NewNop(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	switch name {
	case ProviderOllama:
		c.baseURL = firstNonEmpty(baseURL, defaultOllamaBaseURL)
		c.backend, err = newOllamaBackend(c.model, c.baseURL)
	case ProviderLMStudio:
		c.baseURL = firstNonEmpty(baseURL, defaultLMStudioBaseURL)
		c.backend, err = newLMStudioBackend(c.model, c.baseURL)
	default:
		if c.model == "" {
			c.model = DefaultModel
		}
		c.backend, err = newCopilotBackend(c.model)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
