package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaBackend talks to a local Ollama server through langchaingo.
type ollamaBackend struct {
	llm   *ollama.LLM
	model string
}

func newOllamaBackend(model, baseURL string) (*ollamaBackend, error) {
	if model == "" {
		return nil, errors.New("ollama model is required")
	}
	client, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &ollamaBackend{llm: client, model: model}, nil
}

func (b *ollamaBackend) complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	opts := []llms.CallOption{llms.WithModel(b.model)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}
	resp, err := b.llm.GenerateContent(ctx, toLangChainMessages(messages), opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Content, nil
}

func toLangChainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch strings.ToLower(msg.Role) {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out[i] = llms.TextParts(role, msg.Content)
	}
	return out
}
