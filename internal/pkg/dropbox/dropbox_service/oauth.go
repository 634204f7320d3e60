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

const (
	defaultAuthBaseURL = "https://www.dropbox.com"
	defaultAPIBaseURL  = "https://api.dropboxapi.com"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// AuthFlow drives the one-time authorization-code exchange. There is no
// redirect endpoint in this system, so the flow relies on Dropbox's
// manual-code variant: the user opens the URL, copies the code and sends
// it back via /auth. Each flow is created per command and discarded.
type AuthFlow struct {
	appKey    string
	appSecret string
	client    *http_client.LoggedClient

	// Overridable in tests and against the mock API.
	AuthBaseURL string
	APIBaseURL  string
}

func NewAuthFlow(appKey, appSecret, logServerURL string) *AuthFlow {
	return &AuthFlow{
		appKey:      appKey,
		appSecret:   appSecret,
		client:      http_client.NewLoggedClient(logServerURL),
		AuthBaseURL: defaultAuthBaseURL,
		APIBaseURL:  defaultAPIBaseURL,
	}
}

// BeginAuthorization builds the URL the user must open to grant access.
// token_access_type=offline makes Dropbox issue a refresh token on finish.
// No network side effect.
func (f *AuthFlow) BeginAuthorization() string {
	params := url.Values{}
	params.Add("client_id", f.appKey)
	params.Add("response_type", "code")
	params.Add("token_access_type", "offline")

	return fmt.Sprintf("%s/oauth2/authorize?%s", f.AuthBaseURL, params.Encode())
}

// Finish exchanges the authorization code for a refresh token. Access
// tokens are not retained: the bot always re-derives one from the refresh
// token. A bad, expired or already consumed code yields ErrAuthExchange.
func (f *AuthFlow) Finish(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Add("grant_type", "authorization_code")
	data.Add("code", code)

	req, err := http.NewRequestWithContext(ctx, "POST", f.APIBaseURL+"/oauth2/token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(f.appKey, f.appSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrAuthExchange, resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}

	if tokenResp.RefreshToken == "" {
		return "", fmt.Errorf("%w: token response carried no refresh token", ErrAuthExchange)
	}

	return tokenResp.RefreshToken, nil
}
