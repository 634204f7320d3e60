package dropbox_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UploadFolder is the fixed remote directory all relayed files land in.
const UploadFolder = "/Heroku Uploads"

type uploadArg struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Mute bool   `json:"mute"`
}

type sharedLinkArg struct {
	Path string `json:"path"`
}

type listLinksArg struct {
	Path       string `json:"path"`
	DirectOnly bool   `json:"direct_only"`
}

type sharedLinkMetadata struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	PathDisplay string `json:"path_display"`
}

type listLinksResponse struct {
	Links []sharedLinkMetadata `json:"links"`
}

// RemotePath joins the fixed upload folder with a sanitized file name.
// Path separators and leading dots would change where the file lands, so
// they are replaced; everything else passes through and is left for the
// provider to accept or reject.
func RemotePath(fileName string) string {
	return fmt.Sprintf("%s/%s", UploadFolder, SanitizeFileName(fileName))
}

func SanitizeFileName(name string) string {
	safe := strings.ReplaceAll(name, "/", "_")
	safe = strings.ReplaceAll(safe, "\\", "_")
	if strings.HasPrefix(safe, ".") {
		safe = "_" + strings.TrimLeft(safe, ".")
	}
	return safe
}

// UploadFile moves the file bytes to the remote path with overwrite
// semantics: a name collision replaces the existing object, last writer
// wins. There is no versioning and no retry.
func (c *Client) UploadFile(ctx context.Context, remotePath string, content []byte) error {
	arg, err := json.Marshal(uploadArg{Path: remotePath, Mode: "overwrite", Mute: true})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.contentBaseURL+"/2/files/upload",
		bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status=%d, body=%s", ErrAuth, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status=%d, body=%s", ErrUpload, resp.StatusCode, string(body))
	}

	return nil
}

// SharedLink requests a public link for the uploaded path. If the path was
// relayed before and already has one, the existing link is reused instead
// of failing the whole relay.
func (c *Client) SharedLink(ctx context.Context, remotePath string) (string, error) {
	body, status, err := c.postJSON(ctx, "/2/sharing/create_shared_link_with_settings",
		sharedLinkArg{Path: remotePath})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	switch {
	case status == http.StatusOK:
		var meta sharedLinkMetadata
		if err := json.Unmarshal(body, &meta); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpload, err)
		}
		return meta.URL, nil

	case status == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrAuth, status, string(body))

	case status == http.StatusConflict && strings.Contains(string(body), "shared_link_already_exists"):
		return c.existingLink(ctx, remotePath)

	default:
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrUpload, status, string(body))
	}
}

func (c *Client) existingLink(ctx context.Context, remotePath string) (string, error) {
	body, status, err := c.postJSON(ctx, "/2/sharing/list_shared_links",
		listLinksArg{Path: remotePath, DirectOnly: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDuplicateLink, err)
	}

	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrDuplicateLink, status, string(body))
	}

	var links listLinksResponse
	if err := json.Unmarshal(body, &links); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDuplicateLink, err)
	}

	if len(links.Links) == 0 {
		return "", fmt.Errorf("%w: no existing link found for %s", ErrDuplicateLink, remotePath)
	}

	return links.Links[0].URL, nil
}

func (c *Client) postJSON(ctx context.Context, path string, arg interface{}) ([]byte, int, error) {
	jsonData, err := json.Marshal(arg)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBaseURL+path,
		bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

// DirectStreamURL rewrites a browser-preview link into one that serves the
// raw bytes. Dropbox marks previews with dl=0; replacing it with raw=1
// streams the content without an interstitial page.
func DirectStreamURL(sharedURL string) string {
	if strings.Contains(sharedURL, "?dl=0") {
		return strings.Replace(sharedURL, "?dl=0", "?raw=1", 1)
	}
	if strings.Contains(sharedURL, "&dl=0") {
		return strings.Replace(sharedURL, "&dl=0", "&raw=1", 1)
	}
	if strings.Contains(sharedURL, "?") {
		return sharedURL + "&raw=1"
	}
	return sharedURL + "?raw=1"
}
