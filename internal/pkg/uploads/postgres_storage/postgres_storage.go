package postgres_storage

import (
	"database/sql"
	"time"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/domain"

	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) (*PostgresStorage, error) {
	p := &PostgresStorage{db: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PostgresStorage) ensureSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS uploads (
			id          BIGSERIAL PRIMARY KEY,
			chat_id     BIGINT NOT NULL,
			file_name   TEXT NOT NULL,
			remote_path TEXT NOT NULL,
			shared_url  TEXT NOT NULL,
			size_bytes  BIGINT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (p *PostgresStorage) SaveUpload(record *domain.Record) error {
	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now()
	}
	return p.db.QueryRow(`
		INSERT INTO uploads (chat_id, file_name, remote_path, shared_url, size_bytes, uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, record.ChatID, record.FileName, record.RemotePath, record.SharedURL,
		record.SizeBytes, record.UploadedAt).Scan(&record.ID)
}

func (p *PostgresStorage) RecentUploads(chatID int64, limit int) ([]*domain.Record, error) {
	rows, err := p.db.Query(`
		SELECT id, chat_id, file_name, remote_path, shared_url, size_bytes, uploaded_at
		FROM uploads
		WHERE chat_id=$1
		ORDER BY uploaded_at DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		r := &domain.Record{}
		err := rows.Scan(&r.ID, &r.ChatID, &r.FileName, &r.RemotePath,
			&r.SharedURL, &r.SizeBytes, &r.UploadedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
