package dropbox_service

import "errors"

// Error kinds surfaced by this package. Callers dispatch on them with
// errors.Is at the handler boundary; the wrapped detail carries the
// provider's response for the logs.
var (
	// ErrNotConfigured means the refresh token is absent and the one-time
	// /auth setup has to be completed first. No network call was attempted.
	ErrNotConfigured = errors.New("dropbox refresh token is not configured")

	// ErrAuthExchange means the authorization code was invalid, expired or
	// already consumed.
	ErrAuthExchange = errors.New("authorization code exchange failed")

	// ErrAuth means Dropbox rejected the refresh token or the derived
	// access token. The operator has to re-authenticate via /start.
	ErrAuth = errors.New("dropbox rejected the credentials")

	// ErrUpload wraps transport and provider failures during upload or
	// link creation.
	ErrUpload = errors.New("upload failed")

	// ErrDuplicateLink means a shared link already exists for the path and
	// the existing link could not be retrieved either.
	ErrDuplicateLink = errors.New("shared link already exists")
)
