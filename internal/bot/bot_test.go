package bot

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/salman-dev-app/pro-bot-heroku/internal/config"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/dropbox/dropbox_service"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/media"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/memory_storage"
)

// fakeTelegram answers the bot API methods the handlers touch and records
// every text sent or edited.
type fakeTelegram struct {
	mu    sync.Mutex
	sent  []string
	edits []string
}

func (f *fakeTelegram) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch path.Base(r.URL.Path) {
		case "getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Test","username":"testbot"}}`)
		case "sendMessage":
			f.mu.Lock()
			f.sent = append(f.sent, r.PostFormValue("text"))
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":10,"chat":{"id":42,"type":"private"}}}`)
		case "editMessageText":
			f.mu.Lock()
			f.edits = append(f.edits, r.PostFormValue("text"))
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":10,"chat":{"id":42,"type":"private"}}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	})
}

func (f *fakeTelegram) lastSent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeTelegram) lastEdit() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return ""
	}
	return f.edits[len(f.edits)-1]
}

func newTestBot(t *testing.T, f *fakeTelegram, dropboxURL string) *Bot {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", srv.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("expected nil err creating bot api, got %v", err)
	}

	cfg := &config.Config{
		BotToken:       "test-token",
		AppKey:         "key",
		AppSecret:      "secret",
		APIBaseURL:     dropboxURL,
		ContentBaseURL: dropboxURL,
		AuthBaseURL:    dropboxURL,
	}

	return &Bot{
		Api:       api,
		cfg:       cfg,
		processor: media.NewProcessor(api),
		store:     memory_storage.NewMemoryStorage(),
	}
}

func commandMessage(text string) *tgbotapi.Message {
	cmd := strings.Split(text, " ")[0]
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 7, FirstName: "Op"},
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func TestAuthCommand_NoArgument_UsageWithoutNetworkCall(t *testing.T) {
	var providerCalls int64
	spy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&providerCalls, 1)
	}))
	defer spy.Close()

	f := &fakeTelegram{}
	b := newTestBot(t, f, spy.URL)

	b.handleCommand(commandMessage("/auth"))

	if got := f.lastSent(); got != "Usage: /auth <authorization_code>" {
		t.Fatalf("expected usage reply, got %q", got)
	}
	if n := atomic.LoadInt64(&providerCalls); n != 0 {
		t.Fatalf("expected no provider calls, got %d", n)
	}
}

func TestAuthCommand_WhitespaceArgument_Usage(t *testing.T) {
	var providerCalls int64
	spy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&providerCalls, 1)
	}))
	defer spy.Close()

	f := &fakeTelegram{}
	b := newTestBot(t, f, spy.URL)

	b.handleCommand(commandMessage("/auth   "))

	if got := f.lastSent(); got != "Usage: /auth <authorization_code>" {
		t.Fatalf("expected usage reply, got %q", got)
	}
	if n := atomic.LoadInt64(&providerCalls); n != 0 {
		t.Fatalf("expected no provider calls, got %d", n)
	}
}

// Every error kind must surface as its own user-facing status text.
func TestFailStatus_MapsErrorKinds(t *testing.T) {
	f := &fakeTelegram{}
	b := newTestBot(t, f, "http://unused.invalid")

	status := tgbotapi.Message{
		MessageID: 10,
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
	}

	cases := []struct {
		err  error
		want string
	}{
		{dropbox_service.ErrNotConfigured, "Please use /start for setup"},
		{dropbox_service.ErrAuth, "re-authenticate"},
		{dropbox_service.ErrDuplicateLink, "shared link already exists"},
		{dropbox_service.ErrUpload, "Upload failed"},
		{errors.New("boom"), "critical error"},
	}

	seen := map[string]bool{}
	for _, c := range cases {
		b.failStatus(status, fmt.Errorf("relay: %w", c.err))

		got := f.lastEdit()
		if !strings.Contains(got, c.want) {
			t.Fatalf("failStatus(%v) = %q, want it to contain %q", c.err, got, c.want)
		}
		if seen[got] {
			t.Fatalf("failStatus(%v) reused the text %q for a different kind", c.err, got)
		}
		seen[got] = true
	}
}

func TestStartCommand_SetupModeSendsAuthorizeURL(t *testing.T) {
	f := &fakeTelegram{}
	b := newTestBot(t, f, "")

	b.handleCommand(commandMessage("/start"))

	got := f.lastSent()
	if !strings.Contains(got, "/oauth2/authorize") {
		t.Fatalf("expected setup reply with authorize URL, got %q", got)
	}
	if !strings.Contains(got, "token_access_type=offline") {
		t.Fatalf("expected offline access request in %q", got)
	}
}

func TestStartCommand_ConfiguredGreeting(t *testing.T) {
	f := &fakeTelegram{}
	b := newTestBot(t, f, "")
	b.cfg.RefreshToken = "rt"

	b.handleCommand(commandMessage("/start"))

	got := f.lastSent()
	if !strings.Contains(got, "fully configured and ready") {
		t.Fatalf("expected ready greeting, got %q", got)
	}
}
