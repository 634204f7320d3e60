package http_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// LoggedClient wraps http.Client and records one log entry per request.
// Bodies are never captured: uploads carry whole media files. Query values
// holding secrets are redacted before logging.
type LoggedClient struct {
	*http.Client
	logServerURL string
}

type LogEntry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Duration   int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func NewLoggedClient(logServerURL string) *LoggedClient {
	return &LoggedClient{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logServerURL: logServerURL,
	}
}

// NewUploadClient returns a logged client without the default timeout.
// Media uploads on slow links routinely take longer than 30 seconds.
func NewUploadClient(logServerURL string) *LoggedClient {
	c := NewLoggedClient(logServerURL)
	c.Client.Timeout = 0
	return c
}

func (c *LoggedClient) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	entry := LogEntry{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp: time.Now().Format(time.RFC3339),
		Method:    req.Method,
		URL:       redactedURL(req),
	}

	resp, err := c.Client.Do(req)
	entry.Duration = time.Since(startTime).Milliseconds()

	if err != nil {
		entry.Error = err.Error()
		go c.sendLog(entry)
		return nil, err
	}

	entry.StatusCode = resp.StatusCode

	// Log asynchronously so a slow log server never delays the caller.
	go c.sendLog(entry)

	return resp, nil
}

func redactedURL(req *http.Request) string {
	u := *req.URL
	if u.RawQuery != "" {
		q := u.Query()
		for _, key := range []string{"access_token", "code", "refresh_token"} {
			if q.Has(key) {
				q.Set(key, "REDACTED")
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// logPostClient carries its own short timeout so a hung log server can
// never stall logging goroutines indefinitely.
var logPostClient = &http.Client{Timeout: 5 * time.Second}

func (c *LoggedClient) sendLog(entry LogEntry) {
	if c.logServerURL == "" {
		if entry.Error != "" {
			log.Printf("[%s] %s -> error: %s (%dms)", entry.Method, entry.URL, entry.Error, entry.Duration)
		} else {
			log.Printf("[%s] %s -> %d (%dms)", entry.Method, entry.URL, entry.StatusCode, entry.Duration)
		}
		return
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return
	}

	logPostClient.Post(c.logServerURL+"/log", "application/json", bytes.NewBuffer(jsonData))
}
