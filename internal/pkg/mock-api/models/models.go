package models

// ErrorResponse mirrors the Dropbox API error envelope.
type ErrorResponse struct {
	ErrorSummary string `json:"error_summary"`
	Error        struct {
		Tag string `json:".tag"`
	} `json:"error"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type AccountResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      struct {
		DisplayName string `json:"display_name"`
	} `json:"name"`
}

type FileMetadata struct {
	Tag            string `json:".tag"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	PathDisplay    string `json:"path_display"`
	Size           int    `json:"size"`
	ServerModified string `json:"server_modified"`
	ContentHash    string `json:"content_hash"`
}

type SharedLinkMetadata struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	PathDisplay string `json:"path_display"`
}

type ListSharedLinksResponse struct {
	Links   []SharedLinkMetadata `json:"links"`
	HasMore bool                 `json:"has_more"`
}
