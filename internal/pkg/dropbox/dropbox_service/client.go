package dropbox_service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/http_client"
)

const defaultContentBaseURL = "https://content.dropboxapi.com"

// ClientConfig carries everything needed to derive a Dropbox session.
type ClientConfig struct {
	AppKey       string
	AppSecret    string
	RefreshToken string
	LogServerURL string

	// Overridable in tests and against the mock API. Empty means the real
	// Dropbox endpoints.
	APIBaseURL     string
	ContentBaseURL string
}

// Client is an authenticated Dropbox session. Every upload builds a fresh
// one; there is no caching or pooling, acceptable for single-user usage.
type Client struct {
	accessToken    string
	apiBaseURL     string
	contentBaseURL string
	apiClient      *http_client.LoggedClient
	uploadClient   *http_client.LoggedClient
}

type accountInfo struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// NewClient exchanges the refresh token for an access token and validates
// it with a cheap identity call. An absent refresh token fails immediately
// with ErrNotConfigured and no network traffic; a rejected token fails
// with ErrAuth.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.RefreshToken == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		apiBaseURL:     cfg.APIBaseURL,
		contentBaseURL: cfg.ContentBaseURL,
		apiClient:      http_client.NewLoggedClient(cfg.LogServerURL),
		uploadClient:   http_client.NewUploadClient(cfg.LogServerURL),
	}
	if c.apiBaseURL == "" {
		c.apiBaseURL = defaultAPIBaseURL
	}
	if c.contentBaseURL == "" {
		c.contentBaseURL = defaultContentBaseURL
	}

	token, err := c.refreshAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.accessToken = token

	if err := c.checkAccount(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) refreshAccessToken(ctx context.Context, cfg ClientConfig) (string, error) {
	data := url.Values{}
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBaseURL+"/oauth2/token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(cfg.AppKey, cfg.AppSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrAuth, resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response carried no access token", ErrAuth)
	}

	return tokenResp.AccessToken, nil
}

// checkAccount confirms the derived access token is usable before any
// bytes are moved.
func (c *Client) checkAccount(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBaseURL+"/2/users/get_current_account", nil)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status=%d, body=%s", ErrAuth, resp.StatusCode, string(body))
	}

	var account accountInfo
	if err := json.Unmarshal(body, &account); err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return nil
}
