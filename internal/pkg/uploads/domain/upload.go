package domain

import "time"

// Record is one completed relay, kept for the /history command.
type Record struct {
	ID         int64     `json:"id"`
	ChatID     int64     `json:"chat_id"`
	FileName   string    `json:"file_name"`
	RemotePath string    `json:"remote_path"`
	SharedURL  string    `json:"shared_url"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}
