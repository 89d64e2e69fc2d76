// Package llm talks to chat models and builds sample timetables with them.
package llm

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

// backend sends one conversation to a provider. jsonMode asks for a bare
// JSON reply where the provider supports it.
type backend interface {
	complete(ctx context.Context, messages []Message, jsonMode bool) (string, error)
}

const repairPrompt = `A resposta anterior não é JSON válido. Responda novamente SOMENTE com o JSON pedido, sem texto nem markdown.`

// ChatClient is the Client for every supported provider.
type ChatClient struct {
	provider string
	model    string
	baseURL  string
	backend  backend
	log      *zap.Logger
	timeout  time.Duration
}

// Provider returns the normalized provider name.
func (c *ChatClient) Provider() string { return c.provider }

// Model returns the model requests are sent to.
func (c *ChatClient) Model() string { return c.model }

// BaseURL returns the server URL, empty for hosted providers.
func (c *ChatClient) BaseURL() string { return c.baseURL }

// Chat sends messages and returns the reply text.
func (c *ChatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.call(ctx, messages, false)
}

// ChatJSON decodes the reply into result. A reply that does not decode is
// sent back once with a request to answer with JSON only.
func (c *ChatClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	reply, err := c.call(ctx, messages, true)
	if err != nil {
		return err
	}
	decodeErr := decodeJSON(reply, result)
	if decodeErr == nil {
		return nil
	}

	c.log.Warn("reply is not JSON, asking again", zap.Error(decodeErr))
	retry := append(slices.Clone(messages),
		Message{Role: RoleAssistant, Content: reply},
		Message{Role: RoleUser, Content: repairPrompt},
	)
	if reply, err = c.call(ctx, retry, true); err != nil {
		return err
	}
	return decodeJSON(reply, result)
}

func (c *ChatClient) call(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.backend.complete(ctx, messages, jsonMode)
	fields := []zap.Field{
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Bool("json", jsonMode),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		c.log.Warn("chat failed", append(fields, zap.Error(err))...)
		return "", fmt.Errorf("%s chat: %w", c.provider, err)
	}
	c.log.Debug("chat", append(fields, zap.Int("reply_bytes", len(reply)))...)
	return reply, nil
}
