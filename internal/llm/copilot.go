package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"

	// DefaultModel is the default model for suggestions.
	DefaultModel = "gpt-4o"

	editorVersion = "Roster/1.0"

	// tokenRefreshMargin renews the bearer token this long before it expires.
	tokenRefreshMargin = time.Minute
)

// CopilotClient implements the Client interface using GitHub Copilot's API.
// The short-lived Copilot bearer token is renewed on demand, so a client can
// outlive a single token during a long editing session.
type CopilotClient struct {
	*compatClient
}

// NewCopilotClient creates a new Copilot client.
// It loads the GitHub token and exchanges it for a Copilot bearer token.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	tokens := &copilotTokenSource{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		url:         copilotTokenURL,
		githubToken: githubToken,
		now:         time.Now,
	}
	if _, err := tokens.Token(context.Background()); err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	compat := newCompatClient(ProviderCopilot, model, copilotBaseURL,
		option.WithHeader("Editor-Version", editorVersion),
		option.WithHeader("Editor-Plugin-Version", editorVersion),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)
	compat.jsonObject = true
	compat.authorize = func(ctx context.Context) ([]option.RequestOption, error) {
		token, err := tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		return []option.RequestOption{option.WithAPIKey(token)}, nil
	}

	return &CopilotClient{compat}, nil
}

// copilotTokenSource exchanges a GitHub OAuth token for Copilot bearer
// tokens and caches the current one until shortly before it expires.
type copilotTokenSource struct {
	httpClient  *http.Client
	url         string
	githubToken string
	now         func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// tokenResponse represents the response from GitHub's token exchange endpoint.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Token returns a valid bearer token, exchanging a new one when needed.
func (s *copilotTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(tokenRefreshMargin).Before(s.expires) {
		return s.token, nil
	}

	resp, err := s.exchange(ctx)
	if err != nil {
		return "", err
	}
	s.token = resp.Token
	s.expires = time.Unix(resp.ExpiresAt, 0)
	return s.token, nil
}

func (s *copilotTokenSource) exchange(ctx context.Context) (tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.githubToken)
	req.Header.Set("User-Agent", editorVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return tokenResponse{}, fmt.Errorf("%w: copilot token rejected (status %d)", ErrMissingCredentials, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return tokenResponse{}, fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return tokenResponse{}, fmt.Errorf("decoding response: %w", err)
	}
	if tr.Token == "" {
		return tokenResponse{}, fmt.Errorf("token exchange returned an empty token")
	}
	return tr, nil
}
