package web_server_service_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/web_server/web_server_service"
)

func TestRoot_AliveText(t *testing.T) {
	ws := web_server_service.NewWebServer("8080")
	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "alive") {
		t.Fatalf("expected alive text, got %q", string(body))
	}
}

func TestHealthCheck(t *testing.T) {
	ws := web_server_service.NewWebServer("8080")
	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health/")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
