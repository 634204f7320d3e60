package dropbox_service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/dropbox/dropbox_service"
)

// uploadProvider fakes the token, identity, upload and sharing endpoints.
// shareConflict makes link creation answer 409; listedURL is what
// list_shared_links returns, empty meaning no existing link.
type uploadProvider struct {
	t             *testing.T
	uploadStatus  int
	shareConflict bool
	listedURL     string

	gotArg  map[string]interface{}
	gotBody []byte
}

func (p *uploadProvider) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"at-ok","expires_in":14400,"token_type":"bearer"}`))
	})
	mux.HandleFunc("/2/users/get_current_account", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account_id":"dbid:x","email":"op@example.com"}`))
	})
	mux.HandleFunc("/2/files/upload", func(w http.ResponseWriter, r *http.Request) {
		// Runs on the server goroutine, so no FailNow here.
		if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
			p.t.Errorf("expected octet-stream, got %q", ct)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &p.gotArg); err != nil {
			p.t.Errorf("bad Dropbox-API-Arg: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p.gotBody, _ = io.ReadAll(r.Body)

		if p.uploadStatus != 0 && p.uploadStatus != http.StatusOK {
			w.WriteHeader(p.uploadStatus)
			w.Write([]byte(`{"error_summary":"path/.."}`))
			return
		}
		w.Write([]byte(`{".tag":"file","name":"x","path_display":"/x"}`))
	})
	mux.HandleFunc("/2/sharing/create_shared_link_with_settings", func(w http.ResponseWriter, r *http.Request) {
		if p.shareConflict {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error_summary":"shared_link_already_exists/metadata/.."}`))
			return
		}
		w.Write([]byte(`{"url":"https://www.dropbox.com/s/abc/clip.mp4?dl=0","name":"clip.mp4"}`))
	})
	mux.HandleFunc("/2/sharing/list_shared_links", func(w http.ResponseWriter, r *http.Request) {
		if p.listedURL == "" {
			w.Write([]byte(`{"links":[],"has_more":false}`))
			return
		}
		resp := map[string]interface{}{
			"links":    []map[string]string{{"url": p.listedURL, "name": "clip.mp4"}},
			"has_more": false,
		}
		json.NewEncoder(w).Encode(resp)
	})

	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, srv *httptest.Server) *dropbox_service.Client {
	t.Helper()

	client, err := dropbox_service.NewClient(context.Background(), dropbox_service.ClientConfig{
		AppKey:         "key",
		AppSecret:      "secret",
		RefreshToken:   "rt",
		APIBaseURL:     srv.URL,
		ContentBaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("expected nil err creating client, got %v", err)
	}
	return client
}

func TestUploadFile_OverwriteMode(t *testing.T) {
	p := &uploadProvider{t: t}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	content := []byte("movie bytes")
	err := client.UploadFile(context.Background(), "/Heroku Uploads/clip.mp4", content)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}

	if p.gotArg["path"] != "/Heroku Uploads/clip.mp4" {
		t.Fatalf("expected remote path, got %v", p.gotArg["path"])
	}
	if p.gotArg["mode"] != "overwrite" {
		t.Fatalf("expected overwrite mode, got %v", p.gotArg["mode"])
	}
	if string(p.gotBody) != "movie bytes" {
		t.Fatalf("expected raw bytes relayed, got %q", string(p.gotBody))
	}
}

func TestUploadFile_ProviderFailure(t *testing.T) {
	p := &uploadProvider{t: t, uploadStatus: http.StatusInternalServerError}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	err := client.UploadFile(context.Background(), "/Heroku Uploads/clip.mp4", []byte("x"))
	if !errors.Is(err, dropbox_service.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestUploadFile_TokenRejectedMidOperation(t *testing.T) {
	p := &uploadProvider{t: t, uploadStatus: http.StatusUnauthorized}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	err := client.UploadFile(context.Background(), "/Heroku Uploads/clip.mp4", []byte("x"))
	if !errors.Is(err, dropbox_service.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestSharedLink_Success(t *testing.T) {
	p := &uploadProvider{t: t}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	url, err := client.SharedLink(context.Background(), "/Heroku Uploads/clip.mp4")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if url != "https://www.dropbox.com/s/abc/clip.mp4?dl=0" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestSharedLink_ReusesExistingLink(t *testing.T) {
	p := &uploadProvider{
		t:             t,
		shareConflict: true,
		listedURL:     "https://www.dropbox.com/s/old/clip.mp4?dl=0",
	}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	url, err := client.SharedLink(context.Background(), "/Heroku Uploads/clip.mp4")
	if err != nil {
		t.Fatalf("expected reuse of existing link, got %v", err)
	}
	if url != "https://www.dropbox.com/s/old/clip.mp4?dl=0" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestSharedLink_DuplicateWithoutRetrievableLink(t *testing.T) {
	p := &uploadProvider{t: t, shareConflict: true}
	srv := p.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.SharedLink(context.Background(), "/Heroku Uploads/clip.mp4")
	if !errors.Is(err, dropbox_service.ErrDuplicateLink) {
		t.Fatalf("expected ErrDuplicateLink, got %v", err)
	}
}

func TestDirectStreamURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.dropbox.com/s/abc/clip.mp4?dl=0", "https://www.dropbox.com/s/abc/clip.mp4?raw=1"},
		{"https://www.dropbox.com/s/abc/clip.mp4?x=1&dl=0", "https://www.dropbox.com/s/abc/clip.mp4?x=1&raw=1"},
		{"https://www.dropbox.com/s/abc/clip.mp4?x=1", "https://www.dropbox.com/s/abc/clip.mp4?x=1&raw=1"},
		{"https://www.dropbox.com/s/abc/clip.mp4", "https://www.dropbox.com/s/abc/clip.mp4?raw=1"},
	}

	for _, c := range cases {
		got := dropbox_service.DirectStreamURL(c.in)
		if got != c.want {
			t.Fatalf("DirectStreamURL(%q) = %q, want %q", c.in, got, c.want)
		}
		if strings.Contains(got, "dl=0") {
			t.Fatalf("result still carries the preview flag: %q", got)
		}
	}
}

func TestRemotePath_SanitizesSeparators(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "/Heroku Uploads/clip.mp4"},
		{"../../etc/passwd", "/Heroku Uploads/__.._etc_passwd"},
		{"dir\\file.mp4", "/Heroku Uploads/dir_file.mp4"},
		{".hidden.mp4", "/Heroku Uploads/_hidden.mp4"},
	}

	for _, c := range cases {
		got := dropbox_service.RemotePath(c.in)
		if got != c.want {
			t.Fatalf("RemotePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
