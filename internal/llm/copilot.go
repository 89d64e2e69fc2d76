package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"
	editorVersion   = "Horario/1.0"

	// DefaultModel is the default Copilot model.
	DefaultModel = "gpt-4o"

	// bearers are renewed this long before they expire
	bearerMargin = time.Minute
)

// copilotBackend exchanges the GitHub token for a short-lived Copilot
// bearer on first use and again whenever it is about to expire.
type copilotBackend struct {
	githubToken string
	model       string
	tokenURL    string
	baseURL     string
	httpClient  *http.Client
	now         func() time.Time

	mu      sync.Mutex
	chat    *openAIBackend
	expires time.Time
}

type copilotToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func newCopilotBackend(model string) (*copilotBackend, error) {
	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}
	return &copilotBackend{
		githubToken: githubToken,
		model:       model,
		tokenURL:    copilotTokenURL,
		baseURL:     copilotBaseURL,
		httpClient:  http.DefaultClient,
		now:         time.Now,
	}, nil
}

func (b *copilotBackend) complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	chat, err := b.session(ctx)
	if err != nil {
		return "", err
	}
	return chat.complete(ctx, messages, jsonMode)
}

// session returns a chat backend holding a valid bearer.
func (b *copilotBackend) session(ctx context.Context) (*openAIBackend, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.chat != nil && b.now().Add(bearerMargin).Before(b.expires) {
		return b.chat, nil
	}

	tok, err := b.exchange(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}
	client := openai.NewClient(
		option.WithBaseURL(b.baseURL),
		option.WithAPIKey(tok.Token),
		option.WithHeader("Editor-Version", editorVersion),
		option.WithHeader("Editor-Plugin-Version", editorVersion),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)
	b.chat = &openAIBackend{client: client, model: b.model}
	b.expires = time.Unix(tok.ExpiresAt, 0)
	return b.chat, nil
}

func (b *copilotBackend) exchange(ctx context.Context) (copilotToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.tokenURL, nil)
	if err != nil {
		return copilotToken{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+b.githubToken)
	req.Header.Set("User-Agent", editorVersion)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return copilotToken{}, fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return copilotToken{}, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var tok copilotToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return copilotToken{}, fmt.Errorf("decoding response: %w", err)
	}
	if tok.Token == "" {
		return copilotToken{}, errors.New("empty token in response")
	}
	return tok, nil
}
