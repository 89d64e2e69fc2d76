package llm

import (
	"errors"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// newLMStudioBackend targets LM Studio's OpenAI-compatible server. The
// server ignores the key unless authentication is enabled.
func newLMStudioBackend(model, baseURL string) (*openAIBackend, error) {
	if model == "" {
		return nil, errors.New("lm studio model is required")
	}
	key := firstNonEmpty(os.Getenv("LMSTUDIO_API_KEY"), os.Getenv("OPENAI_API_KEY"), "lm-studio")
	client := openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(key))
	return &openAIBackend{client: client, model: model}, nil
}
