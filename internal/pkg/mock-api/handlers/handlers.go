package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/mock-api/models"
)

// In-memory provider state. Consumed authorization codes stay consumed so
// the one-shot semantics of /auth can be exercised locally.
var (
	mu            sync.Mutex
	consumedCodes = map[string]bool{}
	files         = map[string]int{}    // path -> size
	links         = map[string]string{} // path -> shared url
)

// TokenHandler serves both the authorization-code and the refresh-token
// grant. Any code works once, except the literal "invalid".
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "method_not_allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed_request", http.StatusBadRequest)
		return
	}

	switch r.PostFormValue("grant_type") {
	case "authorization_code":
		code := r.PostFormValue("code")

		mu.Lock()
		consumed := consumedCodes[code]
		consumedCodes[code] = true
		mu.Unlock()

		if code == "" || code == "invalid" || consumed {
			sendError(w, "invalid_grant", http.StatusBadRequest)
			return
		}

		sendJSON(w, models.TokenResponse{
			AccessToken:  "mock-access-" + code,
			RefreshToken: "mock-refresh-" + code,
			ExpiresIn:    14400,
			TokenType:    "bearer",
		})

	case "refresh_token":
		token := r.PostFormValue("refresh_token")
		if token == "" || token == "revoked" {
			sendError(w, "invalid_grant", http.StatusUnauthorized)
			return
		}

		sendJSON(w, models.TokenResponse{
			AccessToken: "mock-access-from-" + token,
			ExpiresIn:   14400,
			TokenType:   "bearer",
		})

	default:
		sendError(w, "unsupported_grant_type", http.StatusBadRequest)
	}
}

func AccountHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		sendError(w, "invalid_access_token", http.StatusUnauthorized)
		return
	}

	resp := models.AccountResponse{
		AccountID: "dbid:mock",
		Email:     "mock@example.com",
	}
	resp.Name.DisplayName = "Mock User"
	sendJSON(w, resp)
}

func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		sendError(w, "invalid_access_token", http.StatusUnauthorized)
		return
	}

	var arg struct {
		Path string `json:"path"`
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg); err != nil || arg.Path == "" {
		sendError(w, "malformed_api_arg", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "malformed_request", http.StatusBadRequest)
		return
	}

	mu.Lock()
	files[arg.Path] = len(body)
	mu.Unlock()

	hash := sha256.Sum256(body)
	parts := strings.Split(arg.Path, "/")

	sendJSON(w, models.FileMetadata{
		Tag:            "file",
		ID:             "id:" + hex.EncodeToString(hash[:8]),
		Name:           parts[len(parts)-1],
		PathDisplay:    arg.Path,
		Size:           len(body),
		ServerModified: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		ContentHash:    hex.EncodeToString(hash[:]),
	})
}

// ShareHandler mimics create_shared_link_with_settings, including the 409
// conflict on a path that is already shared.
func ShareHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		sendError(w, "invalid_access_token", http.StatusUnauthorized)
		return
	}

	var arg struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&arg); err != nil || arg.Path == "" {
		sendError(w, "malformed_request", http.StatusBadRequest)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := links[arg.Path]; exists {
		sendError(w, "shared_link_already_exists/..", http.StatusConflict)
		return
	}

	hash := sha256.Sum256([]byte(arg.Path))
	url := fmt.Sprintf("https://www.dropbox.com/scl/fi/%s/mock?dl=0", hex.EncodeToString(hash[:8]))
	links[arg.Path] = url

	parts := strings.Split(arg.Path, "/")
	sendJSON(w, models.SharedLinkMetadata{
		URL:         url,
		Name:        parts[len(parts)-1],
		PathDisplay: arg.Path,
	})
}

func ListLinksHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		sendError(w, "invalid_access_token", http.StatusUnauthorized)
		return
	}

	var arg struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&arg); err != nil {
		sendError(w, "malformed_request", http.StatusBadRequest)
		return
	}

	mu.Lock()
	url, exists := links[arg.Path]
	mu.Unlock()

	resp := models.ListSharedLinksResponse{}
	if exists {
		parts := strings.Split(arg.Path, "/")
		resp.Links = append(resp.Links, models.SharedLinkMetadata{
			URL:         url,
			Name:        parts[len(parts)-1],
			PathDisplay: arg.Path,
		})
	}
	sendJSON(w, resp)
}

func authorized(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), "Bearer mock-access-")
}

func sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, summary string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{ErrorSummary: summary}
	errResp.Error.Tag = strings.SplitN(summary, "/", 2)[0]
	json.NewEncoder(w).Encode(errResp)
}
