package bot

import "github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/domain"

// UploadStore keeps the relay history behind /history. Saves are
// best-effort: a store failure is logged and never fails an upload.
type UploadStore interface {
	SaveUpload(record *domain.Record) error
	RecentUploads(chatID int64, limit int) ([]*domain.Record, error)
}
