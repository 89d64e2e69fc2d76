package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
)

// errNoChoices is returned when a provider answers without any choice.
var errNoChoices = errors.New("no response choices returned")

// openAIBackend serves every provider speaking the OpenAI chat API.
type openAIBackend struct {
	client openai.Client
	model  string
}

func (b *openAIBackend) complete(ctx context.Context, messages []Message, _ bool) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    b.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}
