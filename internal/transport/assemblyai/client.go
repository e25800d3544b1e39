// Package assemblyai issues temporary streaming-transcription tokens.
package assemblyai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/whispers-app/journal-api/internal/domain"
)

const defaultTokenURL = "https://streaming.assemblyai.com/v3/token"

// Client requests temporary tokens for browser-side streaming transcription.
// The API key stays server-side; clients only ever see short-lived tokens.
type Client struct {
	apiKey   string
	tokenURL string
	expires  int
	http     *http.Client
}

// Config holds transcription provider settings.
type Config struct {
	APIKey     string
	Timeout    time.Duration
	ExpiresSec int
}

// New creates a transcription token client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	expires := cfg.ExpiresSec
	if expires <= 0 {
		expires = 600
	}

	return &Client{
		apiKey:   cfg.APIKey,
		tokenURL: defaultTokenURL,
		expires:  expires,
		http:     &http.Client{Timeout: timeout},
	}
}

// Token fetches a temporary streaming token.
func (c *Client) Token(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s?expires_in_seconds=%d", c.tokenURL, c.expires)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w: %w", err, domain.ErrTokenUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch token: status %d: %w", resp.StatusCode, domain.ErrTokenUnavailable)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w: %w", err, domain.ErrTokenUnavailable)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("empty token in response: %w", domain.ErrTokenUnavailable)
	}

	return parsed.Token, nil
}
