package config

import (
	"fmt"
	"os"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed by reference; nothing mutates it afterwards.
type Config struct {
	BotToken     string
	AppKey       string
	AppSecret    string
	RefreshToken string // empty until the one-time /auth setup is done
	DatabaseURL  string // optional, history falls back to memory
	WebPort      string
	LogServerURL string

	// Endpoint overrides for local development against cmd/mock_api.
	// Empty means the real Dropbox endpoints.
	APIBaseURL     string
	ContentBaseURL string
	AuthBaseURL    string
}

// Load reads the environment. BotToken, AppKey and AppSecret are required;
// RefreshToken is allowed to be empty so the bot can run in setup mode.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:     os.Getenv("TELEGRAM_TOKEN"),
		AppKey:       os.Getenv("DROPBOX_APP_KEY"),
		AppSecret:    os.Getenv("DROPBOX_APP_SECRET"),
		RefreshToken: os.Getenv("DROPBOX_REFRESH_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		WebPort:      WebPort(),
		LogServerURL: os.Getenv("LOG_SERVER_URL"),

		APIBaseURL:     os.Getenv("DROPBOX_API_BASE_URL"),
		ContentBaseURL: os.Getenv("DROPBOX_CONTENT_BASE_URL"),
		AuthBaseURL:    os.Getenv("DROPBOX_AUTH_BASE_URL"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if cfg.AppKey == "" {
		return nil, fmt.Errorf("DROPBOX_APP_KEY is not set")
	}
	if cfg.AppSecret == "" {
		return nil, fmt.Errorf("DROPBOX_APP_SECRET is not set")
	}

	return cfg, nil
}

// Configured reports whether the one-time Dropbox setup has been completed.
func (c *Config) Configured() bool {
	return c.RefreshToken != ""
}

// WebPort returns the port for the keep-alive server. It is read separately
// from Load so the server can start even when the bot configuration is broken.
func WebPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}
